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

// contextTag keys the context tag type table
type contextTag struct {
	property PropertyIdentifier
	tag      uint8
}

// contextTagTypes gives the datatype carried under a context tag within
// the value of a property.
var contextTagTypes = map[contextTag]ApplicationTag{
	{PropertyDateList, 0}: TagDate,
	{PropertyDateList, 1}: TagDateRange,
	{PropertyDateList, 2}: TagWeekNDay,

	{PropertyActualShedLevel, 0}:    TagUnsignedInt,
	{PropertyActualShedLevel, 1}:    TagUnsignedInt,
	{PropertyActualShedLevel, 2}:    TagReal,
	{PropertyRequestedShedLevel, 0}: TagUnsignedInt,
	{PropertyRequestedShedLevel, 1}: TagUnsignedInt,
	{PropertyRequestedShedLevel, 2}: TagReal,
	{PropertyExpectedShedLevel, 0}:  TagUnsignedInt,
	{PropertyExpectedShedLevel, 1}:  TagUnsignedInt,
	{PropertyExpectedShedLevel, 2}:  TagReal,

	{PropertyAction, 0}: TagObjectID,
	{PropertyAction, 1}: TagObjectID,
	{PropertyAction, 2}: TagEnumerated,
	{PropertyAction, 3}: TagUnsignedInt,
	{PropertyAction, 5}: TagUnsignedInt,
	{PropertyAction, 6}: TagUnsignedInt,
	{PropertyAction, 7}: TagBoolean,
	{PropertyAction, 8}: TagBoolean,

	{PropertyListOfGroupMembers, 0}: TagObjectID,

	{PropertyExceptionSchedule, 1}: TagObjectID,
	{PropertyExceptionSchedule, 3}: TagUnsignedInt,

	{PropertyLogDeviceObjectProperty, 0}: TagObjectID,
	{PropertyLogDeviceObjectProperty, 1}: TagEnumerated,
	{PropertyLogDeviceObjectProperty, 2}: TagUnsignedInt,
	{PropertyLogDeviceObjectProperty, 3}: TagObjectID,
	{PropertyObjectPropertyReference, 0}: TagObjectID,
	{PropertyObjectPropertyReference, 1}: TagEnumerated,
	{PropertyObjectPropertyReference, 2}: TagUnsignedInt,
	{PropertyObjectPropertyReference, 3}: TagObjectID,

	{PropertySubordinateList, 0}: TagObjectID,
	{PropertySubordinateList, 1}: TagObjectID,

	{PropertyRecipientList, 0}: TagObjectID,

	{PropertyActiveCOVSubscriptions, 1}: TagObjectPropertyReference,
	{PropertyActiveCOVSubscriptions, 2}: TagBoolean,
	{PropertyActiveCOVSubscriptions, 3}: TagUnsignedInt,
	{PropertyActiveCOVSubscriptions, 4}: TagReal,

	{PropertySetpointReference, 0}: TagObjectPropertyReference,

	{PropertyFDBBMDAddress, 0}:         TagHostNPort,
	{PropertyBACnetIPGlobalAddress, 0}: TagHostNPort,

	{PropertyListOfObjectPropertyReferences, 0}: TagDeviceObjectPropertyReference,
	{PropertyGroupMembers, 0}:                   TagDeviceObjectPropertyReference,
}

// ContextTagType returns the datatype carried under context tag tagNum in
// the value of property, or TagInvalid if the pair is unknown.
func ContextTagType(property PropertyIdentifier, tagNum uint8) ApplicationTag {
	if kind, ok := contextTagTypes[contextTag{property, tagNum}]; ok {
		return kind
	}
	return TagInvalid
}

// knownProperties maps a property to the compound datatype of its value,
// or of each element of its list or array value.
var knownProperties = map[PropertyIdentifier]ApplicationTag{
	PropertyMemberOf:              TagDeviceObjectReference,
	PropertyZoneMembers:           TagDeviceObjectReference,
	PropertyDoorMembers:           TagDeviceObjectReference,
	PropertySubordinateList:       TagDeviceObjectReference,
	PropertyAccessEventCredential: TagDeviceObjectReference,
	PropertyAccessDoors:           TagDeviceObjectReference,
	PropertyZoneFrom:              TagDeviceObjectReference,
	PropertyZoneTo:                TagDeviceObjectReference,
	PropertyCredentialsInZone:     TagDeviceObjectReference,
	PropertyLastCredentialAdded:   TagDeviceObjectReference,
	PropertyLastCredentialRemoved: TagDeviceObjectReference,
	PropertyEntryPoints:           TagDeviceObjectReference,
	PropertyExitPoints:            TagDeviceObjectReference,
	PropertyMembers:               TagDeviceObjectReference,
	PropertyCredentials:           TagDeviceObjectReference,
	PropertyAccompaniment:         TagDeviceObjectReference,
	PropertyBelongsTo:             TagDeviceObjectReference,
	PropertyLastAccessPoint:       TagDeviceObjectReference,
	PropertyRepresents:            TagDeviceObjectReference,

	PropertyTimeOfActiveTimeReset:     TagDateTime,
	PropertyTimeOfStateCountReset:     TagDateTime,
	PropertyChangeOfStateTime:         TagDateTime,
	PropertyMaximumValueTimestamp:     TagDateTime,
	PropertyMinimumValueTimestamp:     TagDateTime,
	PropertyValueChangeTime:           TagDateTime,
	PropertyStartTime:                 TagDateTime,
	PropertyStopTime:                  TagDateTime,
	PropertyModificationDate:          TagDateTime,
	PropertyUpdateTime:                TagDateTime,
	PropertyCountChangeTime:           TagDateTime,
	PropertyLastCredentialAddedTime:   TagDateTime,
	PropertyLastCredentialRemovedTime: TagDateTime,
	PropertyActivationTime:            TagDateTime,
	PropertyExpirationTime:            TagDateTime,
	PropertyLastUseTime:               TagDateTime,

	PropertyObjectPropertyReference:        TagDeviceObjectPropertyReference,
	PropertyLogDeviceObjectProperty:        TagDeviceObjectPropertyReference,
	PropertyListOfObjectPropertyReferences: TagDeviceObjectPropertyReference,

	PropertyManipulatedVariableReference: TagObjectPropertyReference,
	PropertyControlledVariableReference:  TagObjectPropertyReference,
	PropertyInputReference:               TagObjectPropertyReference,

	PropertyEventTimeStamps:     TagTimeStamp,
	PropertyLastRestoreTime:     TagTimeStamp,
	PropertyTimeOfDeviceRestart: TagTimeStamp,
	PropertyAccessEventTime:     TagTimeStamp,

	PropertyTimeSynchronizationRecipients:    TagRecipient,
	PropertyRestartNotificationRecipients:    TagRecipient,
	PropertyUTCTimeSynchronizationRecipients: TagRecipient,

	PropertyRecipientList:          TagDestination,
	PropertyEffectivePeriod:        TagDateRange,
	PropertyDateList:               TagCalendarEntry,
	PropertyActiveCOVSubscriptions: TagCOVSubscription,
	PropertyWeeklySchedule:         TagDailySchedule,
	PropertyExceptionSchedule:      TagSpecialEvent,
	PropertyFDBBMDAddress:          TagHostNPort,
	PropertyBACnetIPGlobalAddress:  TagHostNPort,
}

// KnownPropertyType returns the compound datatype DecodeKnownProperty
// decodes the value of property as. It returns TagInvalid for properties
// that are decoded generically. The priority array is reported as
// TagConstructed since its elements may be primitive or constructed.
func KnownPropertyType(property PropertyIdentifier) ApplicationTag {
	if property == PropertyPriorityArray {
		return TagConstructed
	}
	if kind, ok := knownProperties[property]; ok {
		return kind
	}
	return TagInvalid
}
