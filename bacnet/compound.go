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
	"fmt"
	"strings"
)

// WeekNDay selects days by month, week of month and day of week. Any
// field may be Unspecified.
type WeekNDay struct {
	Month       uint8
	WeekOfMonth uint8
	DayOfWeek   uint8
}

func (WeekNDay) Tag() ApplicationTag { return TagWeekNDay }

func (w WeekNDay) String() string {
	return fmt.Sprintf("month=%d week=%d day=%d", w.Month, w.WeekOfMonth, w.DayOfWeek)
}

// EncodeWeekNDay encodes the three octets of a WeekNDay
func EncodeWeekNDay(w WeekNDay) []byte {
	return []byte{w.Month, w.WeekOfMonth, w.DayOfWeek}
}

// DecodeWeekNDay decodes a WeekNDay from exactly 3 octets
func DecodeWeekNDay(data []byte) (WeekNDay, error) {
	if len(data) != 3 {
		return WeekNDay{}, fmt.Errorf("%w: week-n-day of %d octets", ErrTypeMismatch, len(data))
	}
	return WeekNDay{Month: data[0], WeekOfMonth: data[1], DayOfWeek: data[2]}, nil
}

// DateTime is a date together with a time of day
type DateTime struct {
	Date Date
	Time Time
}

func (DateTime) Tag() ApplicationTag { return TagDateTime }

func (d DateTime) String() string {
	return d.Date.String() + " " + d.Time.String()
}

// DateRange is an inclusive range of dates
type DateRange struct {
	Start Date
	End   Date
}

func (DateRange) Tag() ApplicationTag { return TagDateRange }

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// TimeStampKind selects the choice held by a TimeStamp
type TimeStampKind uint8

const (
	TimeStampTime     TimeStampKind = 0
	TimeStampSequence TimeStampKind = 1
	TimeStampDateTime TimeStampKind = 2
)

// TimeStamp is a time, a sequence number or a date and time
type TimeStamp struct {
	Kind     TimeStampKind
	Time     Time
	Sequence uint16
	DateTime DateTime
}

func (TimeStamp) Tag() ApplicationTag { return TagTimeStamp }

func (t TimeStamp) String() string {
	switch t.Kind {
	case TimeStampTime:
		return t.Time.String()
	case TimeStampSequence:
		return fmt.Sprintf("seq %d", t.Sequence)
	}
	return t.DateTime.String()
}

// DeviceObjectReference names an object, optionally in another device
type DeviceObjectReference struct {
	Device *ObjectIdentifier
	Object ObjectIdentifier
}

func (DeviceObjectReference) Tag() ApplicationTag { return TagDeviceObjectReference }

func (r DeviceObjectReference) String() string {
	if r.Device != nil {
		return r.Device.String() + "/" + r.Object.String()
	}
	return r.Object.String()
}

// DeviceObjectPropertyReference names a property of an object, optionally
// in another device
type DeviceObjectPropertyReference struct {
	Object     ObjectIdentifier
	Property   PropertyIdentifier
	ArrayIndex *uint32
	Device     *ObjectIdentifier
}

func (DeviceObjectPropertyReference) Tag() ApplicationTag { return TagDeviceObjectPropertyReference }

func (r DeviceObjectPropertyReference) String() string {
	s := propertyRefString(r.Object, r.Property, r.ArrayIndex)
	if r.Device != nil {
		return r.Device.String() + "/" + s
	}
	return s
}

// ObjectPropertyReference names a property of an object in the same device
type ObjectPropertyReference struct {
	Object     ObjectIdentifier
	Property   PropertyIdentifier
	ArrayIndex *uint32
}

func (ObjectPropertyReference) Tag() ApplicationTag { return TagObjectPropertyReference }

func (r ObjectPropertyReference) String() string {
	return propertyRefString(r.Object, r.Property, r.ArrayIndex)
}

func propertyRefString(o ObjectIdentifier, p PropertyIdentifier, index *uint32) string {
	if index != nil {
		return fmt.Sprintf("%s.%s[%d]", o, p, *index)
	}
	return fmt.Sprintf("%s.%s", o, p)
}

// Recipient is either a device or a network address. Exactly one of the
// fields is set.
type Recipient struct {
	Device  *ObjectIdentifier
	Address *Address
}

func (Recipient) Tag() ApplicationTag { return TagRecipient }

func (r Recipient) String() string {
	switch {
	case r.Device != nil:
		return r.Device.String()
	case r.Address != nil:
		return r.Address.String()
	}
	return "none"
}

func (r Recipient) clone() Recipient {
	r.Device = clonePtr(r.Device)
	if r.Address != nil {
		a := Address{Net: r.Address.Net, Addr: bytesCopy(r.Address.Addr)}
		r.Address = &a
	}
	return r
}

// RecipientProcess is a recipient together with a process identifier
type RecipientProcess struct {
	Recipient Recipient
	ProcessID uint32
}

// Destination is one entry of a notification class recipient list
type Destination struct {
	ValidDays      BitString
	From           Time
	To             Time
	Recipient      Recipient
	ProcessID      uint32
	IssueConfirmed bool
	Transitions    BitString
}

func (Destination) Tag() ApplicationTag { return TagDestination }

func (d Destination) String() string {
	return fmt.Sprintf("%s days=%s %s-%s process=%d confirmed=%t transitions=%s",
		d.Recipient, d.ValidDays, d.From, d.To, d.ProcessID, d.IssueConfirmed, d.Transitions)
}

// COVSubscription is one entry of a device's active COV subscriptions
type COVSubscription struct {
	Recipient         RecipientProcess
	MonitoredProperty ObjectPropertyReference
	IssueConfirmed    bool
	TimeRemaining     uint32
	COVIncrement      *float32
}

func (COVSubscription) Tag() ApplicationTag { return TagCOVSubscription }

func (s COVSubscription) String() string {
	return fmt.Sprintf("%s process=%d %s confirmed=%t remaining=%ds",
		s.Recipient.Recipient, s.Recipient.ProcessID, s.MonitoredProperty, s.IssueConfirmed, s.TimeRemaining)
}

// CalendarEntryKind selects the choice held by a CalendarEntry
type CalendarEntryKind uint8

const (
	CalendarEntryDate      CalendarEntryKind = 0
	CalendarEntryDateRange CalendarEntryKind = 1
	CalendarEntryWeekNDay  CalendarEntryKind = 2
)

// CalendarEntry is a date, a date range or a WeekNDay
type CalendarEntry struct {
	Kind     CalendarEntryKind
	Date     Date
	Range    DateRange
	WeekNDay WeekNDay
}

func (CalendarEntry) Tag() ApplicationTag { return TagCalendarEntry }

func (e CalendarEntry) String() string {
	switch e.Kind {
	case CalendarEntryDate:
		return e.Date.String()
	case CalendarEntryDateRange:
		return e.Range.String()
	}
	return e.WeekNDay.String()
}

// TimeValue is a time of day and the primitive value that applies from it
type TimeValue struct {
	Time  Time
	Value Value
}

func (TimeValue) Tag() ApplicationTag { return TagTimeValue }

func (tv TimeValue) String() string {
	return tv.Time.String() + "=" + tv.Value.String()
}

// DailySchedule is the schedule of one day of the week
type DailySchedule struct {
	Values []TimeValue
}

func (DailySchedule) Tag() ApplicationTag { return TagDailySchedule }

func (s DailySchedule) String() string {
	parts := make([]string, len(s.Values))
	for i, tv := range s.Values {
		parts[i] = tv.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (s DailySchedule) clone() DailySchedule {
	return DailySchedule{Values: cloneTimeValues(s.Values)}
}

// WeeklySchedule holds the daily schedules from Monday to Sunday
type WeeklySchedule struct {
	Days [7]DailySchedule
}

func (WeeklySchedule) Tag() ApplicationTag { return TagWeeklySchedule }

// SpecialEvent is one entry of an exception schedule. Either Period or
// CalendarRef is set.
type SpecialEvent struct {
	Period      *CalendarEntry
	CalendarRef *ObjectIdentifier
	TimeValues  []TimeValue
	Priority    uint8
}

func (SpecialEvent) Tag() ApplicationTag { return TagSpecialEvent }

func (e SpecialEvent) String() string {
	period := "none"
	switch {
	case e.Period != nil:
		period = e.Period.String()
	case e.CalendarRef != nil:
		period = e.CalendarRef.String()
	}
	return fmt.Sprintf("%s %s priority=%d", period, DailySchedule{Values: e.TimeValues}, e.Priority)
}

// HostKind selects how a HostNPort names its host
type HostKind uint8

const (
	HostNone HostKind = 0
	HostIP   HostKind = 1
	HostName HostKind = 2
)

// HostNPort is a host, given by IP address or name, and a port
type HostNPort struct {
	Kind HostKind
	IP   []byte
	Name string
	Port uint16
}

func (HostNPort) Tag() ApplicationTag { return TagHostNPort }

func (h HostNPort) String() string {
	switch h.Kind {
	case HostIP:
		if len(h.IP) == 4 {
			return fmt.Sprintf("%d.%d.%d.%d:%d", h.IP[0], h.IP[1], h.IP[2], h.IP[3], h.Port)
		}
		return fmt.Sprintf("%X:%d", h.IP, h.Port)
	case HostName:
		return fmt.Sprintf("%s:%d", h.Name, h.Port)
	}
	return fmt.Sprintf(":%d", h.Port)
}

// Compound encoders. Each appends the content of a compound in its bare
// sequence form; the context form adds an opening and a closing tag.

func appendApplication(dst []byte, kind ApplicationTag, content []byte) []byte {
	dst = AppendTag(dst, uint8(kind), TagClassApplication, uint32(len(content)))
	return append(dst, content...)
}

func appendContext(dst []byte, tagNum uint8, content []byte) []byte {
	dst = AppendTag(dst, tagNum, TagClassContext, uint32(len(content)))
	return append(dst, content...)
}

func appendApplicationDate(dst []byte, d Date) ([]byte, error) {
	b, err := EncodeDate(d)
	if err != nil {
		return nil, err
	}
	return appendApplication(dst, TagDate, b), nil
}

func appendContextObjectID(dst []byte, tagNum uint8, o ObjectIdentifier) ([]byte, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	return appendContext(dst, tagNum, EncodeObjectIdentifier(o)), nil
}

func appendDateTime(dst []byte, dt DateTime) ([]byte, error) {
	dst, err := appendApplicationDate(dst, dt.Date)
	if err != nil {
		return nil, err
	}
	return appendApplication(dst, TagTime, EncodeTime(dt.Time)), nil
}

func appendDateRange(dst []byte, r DateRange) ([]byte, error) {
	dst, err := appendApplicationDate(dst, r.Start)
	if err != nil {
		return nil, err
	}
	return appendApplicationDate(dst, r.End)
}

func appendTimeStamp(dst []byte, t TimeStamp) ([]byte, error) {
	switch t.Kind {
	case TimeStampTime:
		return appendContext(dst, 0, EncodeTime(t.Time)), nil
	case TimeStampSequence:
		return appendContext(dst, 1, EncodeUnsigned(uint64(t.Sequence))), nil
	case TimeStampDateTime:
		dst, err := appendDateTime(append(dst, EncodeOpeningTag(2)...), t.DateTime)
		if err != nil {
			return nil, err
		}
		return append(dst, EncodeClosingTag(2)...), nil
	}
	return nil, fmt.Errorf("%w: timestamp choice %d", ErrValueOutOfRange, t.Kind)
}

func appendDeviceObjectReference(dst []byte, r DeviceObjectReference) ([]byte, error) {
	var err error
	if r.Device != nil {
		if dst, err = appendContextObjectID(dst, 0, *r.Device); err != nil {
			return nil, err
		}
	}
	return appendContextObjectID(dst, 1, r.Object)
}

func appendDeviceObjectPropertyReference(dst []byte, r DeviceObjectPropertyReference) ([]byte, error) {
	dst, err := appendObjectPropertyReference(dst, ObjectPropertyReference{
		Object:     r.Object,
		Property:   r.Property,
		ArrayIndex: r.ArrayIndex,
	})
	if err != nil {
		return nil, err
	}
	if r.Device != nil {
		return appendContextObjectID(dst, 3, *r.Device)
	}
	return dst, nil
}

func appendObjectPropertyReference(dst []byte, r ObjectPropertyReference) ([]byte, error) {
	dst, err := appendContextObjectID(dst, 0, r.Object)
	if err != nil {
		return nil, err
	}
	dst = appendContext(dst, 1, EncodeEnumerated(uint32(r.Property)))
	if r.ArrayIndex != nil {
		dst = appendContext(dst, 2, EncodeUnsigned(uint64(*r.ArrayIndex)))
	}
	return dst, nil
}

func appendRecipient(dst []byte, r Recipient) ([]byte, error) {
	switch {
	case r.Device != nil && r.Address == nil:
		return appendContextObjectID(dst, 0, *r.Device)
	case r.Address != nil && r.Device == nil:
		dst = append(dst, EncodeOpeningTag(1)...)
		dst = appendApplication(dst, TagUnsignedInt, EncodeUnsigned(uint64(r.Address.Net)))
		dst = appendApplication(dst, TagOctetString, r.Address.Addr)
		return append(dst, EncodeClosingTag(1)...), nil
	}
	return nil, fmt.Errorf("%w: recipient needs exactly one of device or address", ErrMalformed)
}

func appendRecipientProcess(dst []byte, r RecipientProcess) ([]byte, error) {
	dst = append(dst, EncodeOpeningTag(0)...)
	dst, err := appendRecipient(dst, r.Recipient)
	if err != nil {
		return nil, err
	}
	dst = append(dst, EncodeClosingTag(0)...)
	return appendContext(dst, 1, EncodeUnsigned(uint64(r.ProcessID))), nil
}

func appendDestination(dst []byte, d Destination) ([]byte, error) {
	dst = appendApplication(dst, TagBitString, EncodeBitString(d.ValidDays))
	dst = appendApplication(dst, TagTime, EncodeTime(d.From))
	dst = appendApplication(dst, TagTime, EncodeTime(d.To))
	dst, err := appendRecipient(dst, d.Recipient)
	if err != nil {
		return nil, err
	}
	dst = appendApplication(dst, TagUnsignedInt, EncodeUnsigned(uint64(d.ProcessID)))
	dst = AppendTag(dst, uint8(TagBoolean), TagClassApplication, boolLVT(d.IssueConfirmed))
	return appendApplication(dst, TagBitString, EncodeBitString(d.Transitions)), nil
}

func appendCOVSubscription(dst []byte, s COVSubscription) ([]byte, error) {
	dst = append(dst, EncodeOpeningTag(0)...)
	dst, err := appendRecipientProcess(dst, s.Recipient)
	if err != nil {
		return nil, err
	}
	dst = append(dst, EncodeClosingTag(0)...)
	dst = append(dst, EncodeOpeningTag(1)...)
	if dst, err = appendObjectPropertyReference(dst, s.MonitoredProperty); err != nil {
		return nil, err
	}
	dst = append(dst, EncodeClosingTag(1)...)
	dst = appendContext(dst, 2, EncodeBoolean(s.IssueConfirmed))
	dst = appendContext(dst, 3, EncodeUnsigned(uint64(s.TimeRemaining)))
	if s.COVIncrement != nil {
		dst = appendContext(dst, 4, EncodeReal(*s.COVIncrement))
	}
	return dst, nil
}

func appendCalendarEntry(dst []byte, e CalendarEntry) ([]byte, error) {
	switch e.Kind {
	case CalendarEntryDate:
		b, err := EncodeDate(e.Date)
		if err != nil {
			return nil, err
		}
		return appendContext(dst, 0, b), nil
	case CalendarEntryDateRange:
		dst, err := appendDateRange(append(dst, EncodeOpeningTag(1)...), e.Range)
		if err != nil {
			return nil, err
		}
		return append(dst, EncodeClosingTag(1)...), nil
	case CalendarEntryWeekNDay:
		return appendContext(dst, 2, EncodeWeekNDay(e.WeekNDay)), nil
	}
	return nil, fmt.Errorf("%w: calendar entry choice %d", ErrValueOutOfRange, e.Kind)
}

func appendTimeValue(dst []byte, tv TimeValue) ([]byte, error) {
	if tv.Value.ContextSpecific || !tv.Value.Tag().IsPrimitive() {
		return nil, fmt.Errorf("%w: time value holding %s", ErrUnsupportedType, tv.Value.Tag())
	}
	dst = appendApplication(dst, TagTime, EncodeTime(tv.Time))
	return AppendApplicationValue(dst, tv.Value)
}

func appendTimeValues(dst []byte, tagNum uint8, tvs []TimeValue) ([]byte, error) {
	var err error
	dst = append(dst, EncodeOpeningTag(tagNum)...)
	for _, tv := range tvs {
		if dst, err = appendTimeValue(dst, tv); err != nil {
			return nil, err
		}
	}
	return append(dst, EncodeClosingTag(tagNum)...), nil
}

func appendSpecialEvent(dst []byte, e SpecialEvent) ([]byte, error) {
	var err error
	switch {
	case e.Period != nil && e.CalendarRef == nil:
		dst = append(dst, EncodeOpeningTag(0)...)
		if dst, err = appendCalendarEntry(dst, *e.Period); err != nil {
			return nil, err
		}
		dst = append(dst, EncodeClosingTag(0)...)
	case e.CalendarRef != nil && e.Period == nil:
		if dst, err = appendContextObjectID(dst, 1, *e.CalendarRef); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: special event needs exactly one of period or calendar", ErrMalformed)
	}
	if dst, err = appendTimeValues(dst, 2, e.TimeValues); err != nil {
		return nil, err
	}
	return appendContext(dst, 3, EncodeUnsigned(uint64(e.Priority))), nil
}

func appendHostNPort(dst []byte, h HostNPort) ([]byte, error) {
	dst = append(dst, EncodeOpeningTag(0)...)
	switch h.Kind {
	case HostNone:
		dst = AppendTag(dst, 0, TagClassContext, 0)
	case HostIP:
		dst = appendContext(dst, 1, h.IP)
	case HostName:
		dst = appendContext(dst, 2, EncodeCharacterString(NewCharacterString(h.Name)))
	default:
		return nil, fmt.Errorf("%w: host choice %d", ErrValueOutOfRange, h.Kind)
	}
	dst = append(dst, EncodeClosingTag(0)...)
	return appendContext(dst, 1, EncodeUnsigned(uint64(h.Port))), nil
}

func boolLVT(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// appendCompound appends the bare sequence form of a compound datum
func appendCompound(dst []byte, d Datum) ([]byte, error) {
	switch x := d.(type) {
	case DateTime:
		return appendDateTime(dst, x)
	case DateRange:
		return appendDateRange(dst, x)
	case TimeStamp:
		return appendTimeStamp(dst, x)
	case DeviceObjectReference:
		return appendDeviceObjectReference(dst, x)
	case DeviceObjectPropertyReference:
		return appendDeviceObjectPropertyReference(dst, x)
	case ObjectPropertyReference:
		return appendObjectPropertyReference(dst, x)
	case Recipient:
		return appendRecipient(dst, x)
	case Destination:
		return appendDestination(dst, x)
	case COVSubscription:
		return appendCOVSubscription(dst, x)
	case CalendarEntry:
		return appendCalendarEntry(dst, x)
	case TimeValue:
		return appendTimeValue(dst, x)
	case DailySchedule:
		return appendTimeValues(dst, 0, x.Values)
	case WeeklySchedule:
		var err error
		for _, day := range x.Days {
			if dst, err = appendTimeValues(dst, 0, day.Values); err != nil {
				return nil, err
			}
		}
		return dst, nil
	case SpecialEvent:
		return appendSpecialEvent(dst, x)
	case HostNPort:
		return appendHostNPort(dst, x)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, d)
}

// Compound decoders. Each reads the bare sequence form at the cursor.

func decodeDateTime(c *Cursor) (DateTime, error) {
	date, err := c.applicationDate()
	if err != nil {
		return DateTime{}, err
	}
	t, err := c.applicationTime()
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{Date: date, Time: t}, nil
}

func decodeDateRange(c *Cursor) (DateRange, error) {
	start, err := c.applicationDate()
	if err != nil {
		return DateRange{}, err
	}
	end, err := c.applicationDate()
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: start, End: end}, nil
}

func decodeTimeStamp(c *Cursor) (TimeStamp, error) {
	switch {
	case c.peekContext(0):
		t, err := c.contextTime(0)
		return TimeStamp{Kind: TimeStampTime, Time: t}, err
	case c.peekContext(1):
		seq, err := c.contextUnsigned(1)
		if err != nil {
			return TimeStamp{}, err
		}
		if seq > 0xFFFF {
			return TimeStamp{}, fmt.Errorf("%w: sequence number %d", ErrValueOutOfRange, seq)
		}
		return TimeStamp{Kind: TimeStampSequence, Sequence: uint16(seq)}, nil
	case c.peekOpening(2):
		if err := c.opening(2); err != nil {
			return TimeStamp{}, err
		}
		dt, err := decodeDateTime(c)
		if err != nil {
			return TimeStamp{}, err
		}
		if err := c.closing(2); err != nil {
			return TimeStamp{}, err
		}
		return TimeStamp{Kind: TimeStampDateTime, DateTime: dt}, nil
	}
	return TimeStamp{}, c.noChoice("timestamp")
}

func decodeDeviceObjectReference(c *Cursor) (DeviceObjectReference, error) {
	var r DeviceObjectReference
	if c.peekContext(0) {
		dev, err := c.contextObjectID(0)
		if err != nil {
			return r, err
		}
		r.Device = &dev
	}
	obj, err := c.contextObjectID(1)
	if err != nil {
		return r, err
	}
	r.Object = obj
	return r, nil
}

func decodeObjectPropertyReference(c *Cursor) (ObjectPropertyReference, error) {
	var r ObjectPropertyReference
	obj, err := c.contextObjectID(0)
	if err != nil {
		return r, err
	}
	prop, err := c.contextEnumerated(1)
	if err != nil {
		return r, err
	}
	r.Object = obj
	r.Property = PropertyIdentifier(prop)
	if c.peekContext(2) {
		index, err := c.contextUnsigned(2)
		if err != nil {
			return r, err
		}
		if index > 0xFFFFFFFF {
			return r, fmt.Errorf("%w: array index %d", ErrValueOutOfRange, index)
		}
		i := uint32(index)
		r.ArrayIndex = &i
	}
	return r, nil
}

func decodeDeviceObjectPropertyReference(c *Cursor) (DeviceObjectPropertyReference, error) {
	ref, err := decodeObjectPropertyReference(c)
	if err != nil {
		return DeviceObjectPropertyReference{}, err
	}
	r := DeviceObjectPropertyReference{
		Object:     ref.Object,
		Property:   ref.Property,
		ArrayIndex: ref.ArrayIndex,
	}
	if c.peekContext(3) {
		dev, err := c.contextObjectID(3)
		if err != nil {
			return r, err
		}
		r.Device = &dev
	}
	return r, nil
}

func decodeRecipient(c *Cursor) (Recipient, error) {
	switch {
	case c.peekContext(0):
		dev, err := c.contextObjectID(0)
		if err != nil {
			return Recipient{}, err
		}
		return Recipient{Device: &dev}, nil
	case c.peekOpening(1):
		if err := c.opening(1); err != nil {
			return Recipient{}, err
		}
		net, err := c.applicationUnsigned()
		if err != nil {
			return Recipient{}, err
		}
		if net > 0xFFFF {
			return Recipient{}, fmt.Errorf("%w: network number %d", ErrValueOutOfRange, net)
		}
		mac, err := c.applicationOctetString()
		if err != nil {
			return Recipient{}, err
		}
		if err := c.closing(1); err != nil {
			return Recipient{}, err
		}
		return Recipient{Address: &Address{Net: uint16(net), Addr: mac}}, nil
	}
	return Recipient{}, c.noChoice("recipient")
}

func decodeRecipientProcess(c *Cursor) (RecipientProcess, error) {
	if err := c.opening(0); err != nil {
		return RecipientProcess{}, err
	}
	r, err := decodeRecipient(c)
	if err != nil {
		return RecipientProcess{}, err
	}
	if err := c.closing(0); err != nil {
		return RecipientProcess{}, err
	}
	pid, err := c.contextUnsigned(1)
	if err != nil {
		return RecipientProcess{}, err
	}
	if pid > 0xFFFFFFFF {
		return RecipientProcess{}, fmt.Errorf("%w: process identifier %d", ErrValueOutOfRange, pid)
	}
	return RecipientProcess{Recipient: r, ProcessID: uint32(pid)}, nil
}

func decodeDestination(c *Cursor) (Destination, error) {
	var d Destination
	var err error
	if d.ValidDays, err = c.applicationBitString(); err != nil {
		return d, err
	}
	if d.From, err = c.applicationTime(); err != nil {
		return d, err
	}
	if d.To, err = c.applicationTime(); err != nil {
		return d, err
	}
	if d.Recipient, err = decodeRecipient(c); err != nil {
		return d, err
	}
	pid, err := c.applicationUnsigned()
	if err != nil {
		return d, err
	}
	if pid > 0xFFFFFFFF {
		return d, fmt.Errorf("%w: process identifier %d", ErrValueOutOfRange, pid)
	}
	d.ProcessID = uint32(pid)
	if d.IssueConfirmed, err = c.applicationBoolean(); err != nil {
		return d, err
	}
	if d.Transitions, err = c.applicationBitString(); err != nil {
		return d, err
	}
	return d, nil
}

func decodeCOVSubscription(c *Cursor) (COVSubscription, error) {
	var s COVSubscription
	var err error
	if err = c.opening(0); err != nil {
		return s, err
	}
	if s.Recipient, err = decodeRecipientProcess(c); err != nil {
		return s, err
	}
	if err = c.closing(0); err != nil {
		return s, err
	}
	if err = c.opening(1); err != nil {
		return s, err
	}
	if s.MonitoredProperty, err = decodeObjectPropertyReference(c); err != nil {
		return s, err
	}
	if err = c.closing(1); err != nil {
		return s, err
	}
	if s.IssueConfirmed, err = c.contextBoolean(2); err != nil {
		return s, err
	}
	remaining, err := c.contextUnsigned(3)
	if err != nil {
		return s, err
	}
	if remaining > 0xFFFFFFFF {
		return s, fmt.Errorf("%w: time remaining %d", ErrValueOutOfRange, remaining)
	}
	s.TimeRemaining = uint32(remaining)
	if c.peekContext(4) {
		inc, err := c.contextReal(4)
		if err != nil {
			return s, err
		}
		s.COVIncrement = &inc
	}
	return s, nil
}

func decodeCalendarEntry(c *Cursor) (CalendarEntry, error) {
	switch {
	case c.peekContext(0):
		d, err := c.contextDate(0)
		return CalendarEntry{Kind: CalendarEntryDate, Date: d}, err
	case c.peekOpening(1):
		if err := c.opening(1); err != nil {
			return CalendarEntry{}, err
		}
		r, err := decodeDateRange(c)
		if err != nil {
			return CalendarEntry{}, err
		}
		if err := c.closing(1); err != nil {
			return CalendarEntry{}, err
		}
		return CalendarEntry{Kind: CalendarEntryDateRange, Range: r}, nil
	case c.peekContext(2):
		b, err := c.contextContent(2)
		if err != nil {
			return CalendarEntry{}, err
		}
		w, err := DecodeWeekNDay(b)
		return CalendarEntry{Kind: CalendarEntryWeekNDay, WeekNDay: w}, err
	}
	return CalendarEntry{}, c.noChoice("calendar entry")
}

func decodeTimeValue(c *Cursor) (TimeValue, error) {
	t, err := c.applicationTime()
	if err != nil {
		return TimeValue{}, err
	}
	v, err := c.application()
	if err != nil {
		return TimeValue{}, err
	}
	if !v.IsValid() {
		return TimeValue{}, fmt.Errorf("%w: time value without a primitive value", ErrMalformed)
	}
	return TimeValue{Time: t, Value: v}, nil
}

// decodeTimeValues reads a list of time values enclosed in tagNum
func decodeTimeValues(c *Cursor, tagNum uint8) ([]TimeValue, error) {
	if err := c.opening(tagNum); err != nil {
		return nil, err
	}
	tvs := []TimeValue{}
	for !c.peekClosing(tagNum) {
		if c.Done() {
			return nil, c.clip(fmt.Errorf("%w: closing[%d]", ErrMissingClosingTag, tagNum))
		}
		tv, err := decodeTimeValue(c)
		if err != nil {
			return nil, err
		}
		tvs = append(tvs, tv)
	}
	if err := c.closing(tagNum); err != nil {
		return nil, err
	}
	return tvs, nil
}

func decodeDailySchedule(c *Cursor) (DailySchedule, error) {
	tvs, err := decodeTimeValues(c, 0)
	if err != nil {
		return DailySchedule{}, err
	}
	return DailySchedule{Values: tvs}, nil
}

func decodeWeeklySchedule(c *Cursor) (WeeklySchedule, error) {
	var w WeeklySchedule
	for i := range w.Days {
		day, err := decodeDailySchedule(c)
		if err != nil {
			return WeeklySchedule{}, fmt.Errorf("day %d: %w", i+1, err)
		}
		w.Days[i] = day
	}
	return w, nil
}

func decodeSpecialEvent(c *Cursor) (SpecialEvent, error) {
	var e SpecialEvent
	switch {
	case c.peekOpening(0):
		if err := c.opening(0); err != nil {
			return e, err
		}
		entry, err := decodeCalendarEntry(c)
		if err != nil {
			return e, err
		}
		if err := c.closing(0); err != nil {
			return e, err
		}
		e.Period = &entry
	case c.peekContext(1):
		ref, err := c.contextObjectID(1)
		if err != nil {
			return e, err
		}
		e.CalendarRef = &ref
	default:
		return e, c.noChoice("special event period")
	}

	tvs, err := decodeTimeValues(c, 2)
	if err != nil {
		return e, err
	}
	e.TimeValues = tvs

	priority, err := c.contextUnsigned(3)
	if err != nil {
		return e, err
	}
	if priority > 0xFF {
		return e, fmt.Errorf("%w: event priority %d", ErrValueOutOfRange, priority)
	}
	e.Priority = uint8(priority)
	return e, nil
}

func decodeHostNPort(c *Cursor) (HostNPort, error) {
	var h HostNPort
	if err := c.opening(0); err != nil {
		return h, err
	}
	switch {
	case c.peekContext(0):
		if _, err := c.contextContent(0); err != nil {
			return h, err
		}
		h.Kind = HostNone
	case c.peekContext(1):
		ip, err := c.contextContent(1)
		if err != nil {
			return h, err
		}
		h.Kind = HostIP
		h.IP = bytesCopy(ip)
	case c.peekContext(2):
		b, err := c.contextContent(2)
		if err != nil {
			return h, err
		}
		name, err := DecodeCharacterString(b)
		if err != nil {
			return h, err
		}
		h.Kind = HostName
		h.Name = name.Value
	default:
		return h, c.noChoice("host")
	}
	if err := c.closing(0); err != nil {
		return h, err
	}
	port, err := c.contextUnsigned(1)
	if err != nil {
		return h, err
	}
	if port > 0xFFFF {
		return h, fmt.Errorf("%w: port %d", ErrValueOutOfRange, port)
	}
	h.Port = uint16(port)
	return h, nil
}

func (c *Cursor) noChoice(what string) error {
	tag, _, err := c.PeekTag()
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s choice at offset %d, have %s", ErrMalformed, what, c.pos, tag)
}

// decodeCompound reads the bare sequence form of a compound kind
func decodeCompound(c *Cursor, kind ApplicationTag) (Datum, error) {
	switch kind {
	case TagDateTime:
		return decodeDateTime(c)
	case TagDateRange:
		return decodeDateRange(c)
	case TagTimeStamp:
		return decodeTimeStamp(c)
	case TagDeviceObjectReference:
		return decodeDeviceObjectReference(c)
	case TagDeviceObjectPropertyReference:
		return decodeDeviceObjectPropertyReference(c)
	case TagObjectPropertyReference:
		return decodeObjectPropertyReference(c)
	case TagRecipient:
		return decodeRecipient(c)
	case TagDestination:
		return decodeDestination(c)
	case TagCOVSubscription:
		return decodeCOVSubscription(c)
	case TagCalendarEntry:
		return decodeCalendarEntry(c)
	case TagTimeValue:
		return decodeTimeValue(c)
	case TagDailySchedule:
		return decodeDailySchedule(c)
	case TagWeeklySchedule:
		return decodeWeeklySchedule(c)
	case TagSpecialEvent:
		return decodeSpecialEvent(c)
	case TagHostNPort:
		return decodeHostNPort(c)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, kind)
}
