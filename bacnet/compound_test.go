// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bacnet

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompoundRoundTrip(t *testing.T) {
	device := ObjectIdentifier{Type: ObjectTypeDevice, Instance: 1001}
	calendar := ObjectIdentifier{Type: ObjectTypeCalendar, Instance: 1}
	index := uint32(3)
	spring := DateRange{
		Start: Date{Year: 2024, Month: 3, Day: 20, Weekday: 3},
		End:   Date{Year: 2024, Month: 6, Day: 20, Weekday: 4},
	}
	holiday := CalendarEntry{Kind: CalendarEntryDate, Date: Date{Year: 2024, Month: 12, Day: 25, Weekday: 3}}
	morning := []TimeValue{
		{Time: NewTime(7, 0, 0, 0), Value: AppValue(Real(21.5))},
		{Time: NewTime(12, 0, 0, 0), Value: AppValue(Boolean(true))},
	}
	var week WeeklySchedule
	for i := range week.Days {
		week.Days[i] = DailySchedule{Values: []TimeValue{}}
	}
	week.Days[0] = DailySchedule{Values: morning}

	testCases := []struct {
		name  string
		datum Datum
	}{
		{"date time", DateTime{Date: Date{Year: 2024, Month: 3, Day: 15, Weekday: 5}, Time: NewTime(13, 45, 30, 0)}},
		{"date range", spring},
		{"time stamp time", TimeStamp{Kind: TimeStampTime, Time: NewTime(1, 2, 3, 4)}},
		{"time stamp sequence", TimeStamp{Kind: TimeStampSequence, Sequence: 65535}},
		{"time stamp date time", TimeStamp{Kind: TimeStampDateTime, DateTime: DateTime{
			Date: Date{Year: Unspecified, Month: 1, Day: 1, Weekday: Unspecified},
			Time: NewTime(0, 0, 0, 0),
		}}},
		{"device object reference", DeviceObjectReference{Device: &device, Object: ObjectIdentifier{Type: ObjectTypeBinaryValue, Instance: 4}}},
		{"device object reference without device", DeviceObjectReference{Object: ObjectIdentifier{Type: ObjectTypeBinaryValue, Instance: 4}}},
		{"device object property reference", DeviceObjectPropertyReference{
			Object:     ObjectIdentifier{Type: ObjectTypeAnalogValue, Instance: 2},
			Property:   PropertyPriorityArray,
			ArrayIndex: &index,
			Device:     &device,
		}},
		{"object property reference", ObjectPropertyReference{
			Object:   ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 0},
			Property: PropertyPresentValue,
		}},
		{"recipient device", Recipient{Device: &device}},
		{"recipient address", Recipient{Address: &Address{Net: 0xFFFF, Addr: []byte{}}}},
		{"destination", Destination{
			ValidDays:      BitStringFromBools(true, true, true, true, true, false, false),
			From:           NewTime(0, 0, 0, 0),
			To:             NewTime(23, 59, 59, 99),
			Recipient:      Recipient{Device: &device},
			ProcessID:      7,
			IssueConfirmed: true,
			Transitions:    BitStringFromBools(true, true, true),
		}},
		{"cov subscription", COVSubscription{
			Recipient:         RecipientProcess{Recipient: Recipient{Device: &device}, ProcessID: 1},
			MonitoredProperty: ObjectPropertyReference{Object: ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 1}, Property: PropertyPresentValue},
			TimeRemaining:     60,
		}},
		{"calendar entry date", holiday},
		{"calendar entry range", CalendarEntry{Kind: CalendarEntryDateRange, Range: spring}},
		{"calendar entry week n day", CalendarEntry{Kind: CalendarEntryWeekNDay, WeekNDay: WeekNDay{Month: Unspecified, WeekOfMonth: 6, DayOfWeek: 5}}},
		{"time value", TimeValue{Time: NewTime(6, 30, 0, 0), Value: AppValue(Unsigned(2))}},
		{"daily schedule", DailySchedule{Values: morning}},
		{"empty daily schedule", DailySchedule{Values: []TimeValue{}}},
		{"weekly schedule", week},
		{"special event period", SpecialEvent{Period: &holiday, TimeValues: morning, Priority: 16}},
		{"special event calendar", SpecialEvent{CalendarRef: &calendar, TimeValues: []TimeValue{}, Priority: 1}},
		{"host ip", HostNPort{Kind: HostIP, IP: []byte{10, 0, 0, 1}, Port: 47808}},
		{"host name", HostNPort{Kind: HostName, Name: "bbmd.example.net", Port: 47809}},
		{"host none", HostNPort{Kind: HostNone, Port: 0}},
	}
	for _, tCase := range testCases {
		t.Run(tCase.name, func(t *testing.T) {
			data, err := EncodeApplicationValue(AppValue(tCase.datum))
			require.NoError(t, err)

			v, n, err := DecodeCompound(data, tCase.datum.Tag())
			require.NoError(t, err)
			assert.Equal(t, len(data), n)
			if diff := cmp.Diff(tCase.datum, v.Data); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}

			// the context form wraps the same octets
			wrapped, err := EncodeContextValue(4, AppValue(tCase.datum))
			require.NoError(t, err)
			ctx, n, err := DecodeContextValue(wrapped, 4, tCase.datum.Tag())
			require.NoError(t, err)
			assert.Equal(t, len(wrapped), n)
			assert.True(t, ctx.ContextSpecific)
			if diff := cmp.Diff(tCase.datum, ctx.Data); diff != "" {
				t.Errorf("context form mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompoundEncoding(t *testing.T) {
	testCases := []struct {
		name     string
		datum    Datum
		expected []byte
	}{
		{"time stamp sequence", TimeStamp{Kind: TimeStampSequence, Sequence: 5}, []byte{0x19, 0x05}},
		{"recipient device", Recipient{Device: &ObjectIdentifier{Type: ObjectTypeDevice, Instance: 1}},
			[]byte{0x0C, 0x02, 0x00, 0x00, 0x01}},
		{"object property reference with index", ObjectPropertyReference{
			Object:     ObjectIdentifier{Type: ObjectTypeAnalogInput, Instance: 1},
			Property:   PropertyPresentValue,
			ArrayIndex: new(uint32),
		}, []byte{0x0C, 0x00, 0x00, 0x00, 0x01, 0x19, 0x55, 0x29, 0x00}},
		{"host ip", HostNPort{Kind: HostIP, IP: []byte{10, 0, 0, 1}, Port: 47808},
			[]byte{0x0E, 0x1C, 10, 0, 0, 1, 0x0F, 0x1A, 0xBA, 0xC0}},
		{"host none", HostNPort{Kind: HostNone, Port: 1}, []byte{0x0E, 0x08, 0x0F, 0x19, 0x01}},
		{"daily schedule", DailySchedule{Values: []TimeValue{{Time: NewTime(7, 0, 0, 0), Value: AppValue(Enumerated(1))}}},
			[]byte{0x0E, 0xB4, 7, 0, 0, 0, 0x91, 0x01, 0x0F}},
	}
	for _, tCase := range testCases {
		t.Run(tCase.name, func(t *testing.T) {
			data, err := EncodeApplicationValue(AppValue(tCase.datum))
			require.NoError(t, err)
			assert.Equal(t, tCase.expected, data)
		})
	}
}

func TestCompoundDecodeErrors(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
		kind ApplicationTag
		err  error
	}{
		{"time stamp without choice", []byte{0x39, 0x01}, TagTimeStamp, ErrMalformed},
		{"time stamp sequence too large", []byte{0x1B, 0x01, 0x00, 0x00}, TagTimeStamp, ErrValueOutOfRange},
		{"recipient without choice", []byte{0x21, 0x01}, TagRecipient, ErrMalformed},
		{"special event without period", []byte{0x2E, 0x2F}, TagSpecialEvent, ErrMalformed},
		{"date range with one date", []byte{0xA4, 0x7C, 0x03, 0x01, 0x05}, TagDateRange, ErrTruncated},
		{"daily schedule missing closing tag", []byte{0x0E, 0xB4, 7, 0, 0, 0, 0x91, 0x01}, TagDailySchedule, ErrMissingClosingTag},
		{"time value without value", []byte{0xB4, 7, 0, 0, 0, 0xD0}, TagTimeValue, ErrMalformed},
		{"host port too large", []byte{0x0E, 0x08, 0x0F, 0x1B, 0x01, 0x00, 0x00}, TagHostNPort, ErrValueOutOfRange},
		{"primitive kind", []byte{0x21, 0x01}, TagUnsignedInt, ErrUnsupportedType},
		{"weekly schedule with six days", []byte{
			0x0E, 0x0F, 0x0E, 0x0F, 0x0E, 0x0F, 0x0E, 0x0F, 0x0E, 0x0F, 0x0E, 0x0F,
		}, TagWeeklySchedule, ErrTruncated},
	}
	for _, tCase := range testCases {
		t.Run(tCase.name, func(t *testing.T) {
			_, n, err := DecodeCompound(tCase.data, tCase.kind)
			assert.ErrorIs(t, err, tCase.err)
			assert.Zero(t, n)
		})
	}
}

func TestSpecialEventNeedsOneChoice(t *testing.T) {
	holiday := CalendarEntry{Kind: CalendarEntryDate, Date: Date{Year: 2024, Month: 12, Day: 25, Weekday: 3}}
	calendar := ObjectIdentifier{Type: ObjectTypeCalendar, Instance: 1}

	_, err := EncodeValue(AppValue(SpecialEvent{}))
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = EncodeValue(AppValue(SpecialEvent{Period: &holiday, CalendarRef: &calendar}))
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = EncodeValue(AppValue(TimeStamp{Kind: 3}))
	assert.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestWeekNDay(t *testing.T) {
	w := WeekNDay{Month: 13, WeekOfMonth: Unspecified, DayOfWeek: 1}
	assert.Equal(t, []byte{13, 0xFF, 1}, EncodeWeekNDay(w))
	decoded, err := DecodeWeekNDay([]byte{13, 0xFF, 1})
	require.NoError(t, err)
	assert.Equal(t, w, decoded)

	_, err = DecodeWeekNDay([]byte{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}
