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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextTagType(t *testing.T) {
	testCases := []struct {
		property PropertyIdentifier
		tagNum   uint8
		expected ApplicationTag
	}{
		{PropertyDateList, 0, TagDate},
		{PropertyDateList, 1, TagDateRange},
		{PropertyDateList, 2, TagWeekNDay},
		{PropertyDateList, 3, TagInvalid},
		{PropertyActualShedLevel, 2, TagReal},
		{PropertyAction, 7, TagBoolean},
		{PropertyAction, 4, TagInvalid},
		{PropertyActiveCOVSubscriptions, 1, TagObjectPropertyReference},
		{PropertyFDBBMDAddress, 0, TagHostNPort},
		{PropertyGroupMembers, 0, TagDeviceObjectPropertyReference},
		{PropertyGroupMembers, 1, TagInvalid},
		{PropertyPresentValue, 0, TagInvalid},
	}
	for _, tCase := range testCases {
		assert.Equal(t, tCase.expected, ContextTagType(tCase.property, tCase.tagNum), "%s [%d]", tCase.property, tCase.tagNum)
	}
}

func TestKnownPropertyType(t *testing.T) {
	assert.Equal(t, TagConstructed, KnownPropertyType(PropertyPriorityArray))
	assert.Equal(t, TagDateRange, KnownPropertyType(PropertyEffectivePeriod))
	assert.Equal(t, TagDailySchedule, KnownPropertyType(PropertyWeeklySchedule))
	assert.Equal(t, TagSpecialEvent, KnownPropertyType(PropertyExceptionSchedule))
	assert.Equal(t, TagInvalid, KnownPropertyType(PropertyPresentValue))

	// every kind in the table has a compound decoder
	for property, kind := range knownProperties {
		assert.False(t, kind.IsPrimitive(), "%s", property)
		assert.NotEqual(t, TagInvalid, NewValue(kind).Tag(), "%s", property)
	}
}

func TestParseIdentifiers(t *testing.T) {
	oid, err := ParseObjectIdentifier("ai:1")
	require.NoError(t, err)
	assert.Equal(t, analogInput1, oid)

	_, err = ParseObjectIdentifier("device")
	assert.Error(t, err)
	_, err = ParseObjectIdentifier("device:4194304")
	assert.Error(t, err)

	p, ok := ParsePropertyIdentifier("pv")
	require.True(t, ok)
	assert.Equal(t, PropertyPresentValue, p)

	p, ok = ParsePropertyIdentifier("date-list")
	require.True(t, ok)
	assert.Equal(t, PropertyDateList, p)

	tag, ok := ParseApplicationTag("real")
	require.True(t, ok)
	assert.Equal(t, TagReal, tag)
	assert.Equal(t, "weekly-schedule", TagWeeklySchedule.String())
}
