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

// Package bacnet implements the BACnet application layer data encoding
// (ASHRAE 135 clause 20.2): tags, primitive values, application and
// context tagged values, constructed data and the property aware decoder
// used to read complex property values.
package bacnet

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxAPDULength is the maximum APDU length for BACnet/IP
const MaxAPDULength = 1476

// ObjectType represents BACnet object types
type ObjectType uint16

const (
	ObjectTypeAnalogInput           ObjectType = 0
	ObjectTypeAnalogOutput          ObjectType = 1
	ObjectTypeAnalogValue           ObjectType = 2
	ObjectTypeBinaryInput           ObjectType = 3
	ObjectTypeBinaryOutput          ObjectType = 4
	ObjectTypeBinaryValue           ObjectType = 5
	ObjectTypeCalendar              ObjectType = 6
	ObjectTypeCommand               ObjectType = 7
	ObjectTypeDevice                ObjectType = 8
	ObjectTypeEventEnrollment       ObjectType = 9
	ObjectTypeFile                  ObjectType = 10
	ObjectTypeGroup                 ObjectType = 11
	ObjectTypeLoop                  ObjectType = 12
	ObjectTypeMultiStateInput       ObjectType = 13
	ObjectTypeMultiStateOutput      ObjectType = 14
	ObjectTypeNotificationClass     ObjectType = 15
	ObjectTypeProgram               ObjectType = 16
	ObjectTypeSchedule              ObjectType = 17
	ObjectTypeAveraging             ObjectType = 18
	ObjectTypeMultiStateValue       ObjectType = 19
	ObjectTypeTrendLog              ObjectType = 20
	ObjectTypeLifeSafetyPoint       ObjectType = 21
	ObjectTypeLifeSafetyZone        ObjectType = 22
	ObjectTypeAccumulator           ObjectType = 23
	ObjectTypePulseConverter        ObjectType = 24
	ObjectTypeEventLog              ObjectType = 25
	ObjectTypeGlobalGroup           ObjectType = 26
	ObjectTypeTrendLogMultiple      ObjectType = 27
	ObjectTypeLoadControl           ObjectType = 28
	ObjectTypeStructuredView        ObjectType = 29
	ObjectTypeAccessDoor            ObjectType = 30
	ObjectTypeTimer                 ObjectType = 31
	ObjectTypeAccessCredential      ObjectType = 32
	ObjectTypeAccessPoint           ObjectType = 33
	ObjectTypeAccessRights          ObjectType = 34
	ObjectTypeAccessUser            ObjectType = 35
	ObjectTypeAccessZone            ObjectType = 36
	ObjectTypeCredentialDataInput   ObjectType = 37
	ObjectTypeNetworkSecurity       ObjectType = 38
	ObjectTypeBitStringValue        ObjectType = 39
	ObjectTypeCharacterStringValue  ObjectType = 40
	ObjectTypeDatePatternValue      ObjectType = 41
	ObjectTypeDateValue             ObjectType = 42
	ObjectTypeDateTimePatternValue  ObjectType = 43
	ObjectTypeDateTimeValue         ObjectType = 44
	ObjectTypeIntegerValue          ObjectType = 45
	ObjectTypeLargeAnalogValue      ObjectType = 46
	ObjectTypeOctetStringValue      ObjectType = 47
	ObjectTypePositiveIntegerValue  ObjectType = 48
	ObjectTypeTimePatternValue      ObjectType = 49
	ObjectTypeTimeValue             ObjectType = 50
	ObjectTypeNotificationForwarder ObjectType = 51
	ObjectTypeAlertEnrollment       ObjectType = 52
	ObjectTypeChannel               ObjectType = 53
	ObjectTypeLightingOutput        ObjectType = 54
	ObjectTypeBinaryLightingOutput  ObjectType = 55
	ObjectTypeNetworkPort           ObjectType = 56
	ObjectTypeElevatorGroup         ObjectType = 57
	ObjectTypeEscalator             ObjectType = 58
	ObjectTypeLift                  ObjectType = 59
)

// objectTypeNames is indexed by ObjectType.
var objectTypeNames = [...]string{
	"analog-input", "analog-output", "analog-value", "binary-input",
	"binary-output", "binary-value", "calendar", "command", "device",
	"event-enrollment", "file", "group", "loop", "multi-state-input",
	"multi-state-output", "notification-class", "program", "schedule",
	"averaging", "multi-state-value", "trend-log", "life-safety-point",
	"life-safety-zone", "accumulator", "pulse-converter", "event-log",
	"global-group", "trend-log-multiple", "load-control", "structured-view",
	"access-door", "timer", "access-credential", "access-point",
	"access-rights", "access-user", "access-zone", "credential-data-input",
	"network-security", "bitstring-value", "characterstring-value",
	"date-pattern-value", "date-value", "datetime-pattern-value",
	"datetime-value", "integer-value", "large-analog-value",
	"octetstring-value", "positive-integer-value", "time-pattern-value",
	"time-value", "notification-forwarder", "alert-enrollment", "channel",
	"lighting-output", "binary-lighting-output", "network-port",
	"elevator-group", "escalator", "lift",
}

var objectTypeAliases = map[string]ObjectType{
	"ai":  ObjectTypeAnalogInput,
	"ao":  ObjectTypeAnalogOutput,
	"av":  ObjectTypeAnalogValue,
	"bi":  ObjectTypeBinaryInput,
	"bo":  ObjectTypeBinaryOutput,
	"bv":  ObjectTypeBinaryValue,
	"cal": ObjectTypeCalendar,
	"dev": ObjectTypeDevice,
	"msi": ObjectTypeMultiStateInput,
	"mso": ObjectTypeMultiStateOutput,
	"msv": ObjectTypeMultiStateValue,
	"nc":  ObjectTypeNotificationClass,
	"prg": ObjectTypeProgram,
	"sch": ObjectTypeSchedule,
	"tl":  ObjectTypeTrendLog,
}

func (o ObjectType) String() string {
	if int(o) < len(objectTypeNames) {
		return objectTypeNames[o]
	}
	return fmt.Sprintf("vendor-specific(%d)", o)
}

// ParseObjectType parses a name, an alias or a number to ObjectType
func ParseObjectType(s string) (ObjectType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if t, ok := objectTypeAliases[s]; ok {
		return t, true
	}
	for i, name := range objectTypeNames {
		if name == s {
			return ObjectType(i), true
		}
	}
	if n, err := strconv.ParseUint(s, 10, 16); err == nil && n <= MaxObjectType {
		return ObjectType(n), true
	}
	return 0, false
}

// PropertyIdentifier represents BACnet property identifiers
type PropertyIdentifier uint32

const (
	PropertyAckedTransitions                 PropertyIdentifier = 0
	PropertyAckRequired                      PropertyIdentifier = 1
	PropertyAction                           PropertyIdentifier = 2
	PropertyActionText                       PropertyIdentifier = 3
	PropertyActiveText                       PropertyIdentifier = 4
	PropertyActiveVtSessions                 PropertyIdentifier = 5
	PropertyAlarmValue                       PropertyIdentifier = 6
	PropertyAlarmValues                      PropertyIdentifier = 7
	PropertyAll                              PropertyIdentifier = 8
	PropertyAllWritesSuccessful              PropertyIdentifier = 9
	PropertyApduSegmentTimeout               PropertyIdentifier = 10
	PropertyApduTimeout                      PropertyIdentifier = 11
	PropertyApplicationSoftwareVersion       PropertyIdentifier = 12
	PropertyArchive                          PropertyIdentifier = 13
	PropertyBias                             PropertyIdentifier = 14
	PropertyChangeOfStateCount               PropertyIdentifier = 15
	PropertyChangeOfStateTime                PropertyIdentifier = 16
	PropertyNotificationClass                PropertyIdentifier = 17
	PropertyControlledVariableReference      PropertyIdentifier = 19
	PropertyControlledVariableUnits          PropertyIdentifier = 20
	PropertyControlledVariableValue          PropertyIdentifier = 21
	PropertyCOVIncrement                     PropertyIdentifier = 22
	PropertyDateList                         PropertyIdentifier = 23
	PropertyDaylightSavingsStatus            PropertyIdentifier = 24
	PropertyDeadband                         PropertyIdentifier = 25
	PropertyDerivativeConstant               PropertyIdentifier = 26
	PropertyDerivativeConstantUnits          PropertyIdentifier = 27
	PropertyDescription                      PropertyIdentifier = 28
	PropertyDescriptionOfHalt                PropertyIdentifier = 29
	PropertyDeviceAddressBinding             PropertyIdentifier = 30
	PropertyDeviceType                       PropertyIdentifier = 31
	PropertyEffectivePeriod                  PropertyIdentifier = 32
	PropertyElapsedActiveTime                PropertyIdentifier = 33
	PropertyErrorLimit                       PropertyIdentifier = 34
	PropertyEventEnable                      PropertyIdentifier = 35
	PropertyEventState                       PropertyIdentifier = 36
	PropertyEventType                        PropertyIdentifier = 37
	PropertyExceptionSchedule                PropertyIdentifier = 38
	PropertyFaultValues                      PropertyIdentifier = 39
	PropertyFeedbackValue                    PropertyIdentifier = 40
	PropertyFileAccessMethod                 PropertyIdentifier = 41
	PropertyFileSize                         PropertyIdentifier = 42
	PropertyFileType                         PropertyIdentifier = 43
	PropertyFirmwareRevision                 PropertyIdentifier = 44
	PropertyHighLimit                        PropertyIdentifier = 45
	PropertyInactiveText                     PropertyIdentifier = 46
	PropertyInProcess                        PropertyIdentifier = 47
	PropertyInstanceOf                       PropertyIdentifier = 48
	PropertyIntegralConstant                 PropertyIdentifier = 49
	PropertyIntegralConstantUnits            PropertyIdentifier = 50
	PropertyLimitEnable                      PropertyIdentifier = 52
	PropertyListOfGroupMembers               PropertyIdentifier = 53
	PropertyListOfObjectPropertyReferences   PropertyIdentifier = 54
	PropertyLocalDate                        PropertyIdentifier = 56
	PropertyLocalTime                        PropertyIdentifier = 57
	PropertyLocation                         PropertyIdentifier = 58
	PropertyLowLimit                         PropertyIdentifier = 59
	PropertyManipulatedVariableReference     PropertyIdentifier = 60
	PropertyMaximumOutput                    PropertyIdentifier = 61
	PropertyMaxApduLengthAccepted            PropertyIdentifier = 62
	PropertyMaxInfoFrames                    PropertyIdentifier = 63
	PropertyMaxMaster                        PropertyIdentifier = 64
	PropertyMaxPresValue                     PropertyIdentifier = 65
	PropertyMinimumOffTime                   PropertyIdentifier = 66
	PropertyMinimumOnTime                    PropertyIdentifier = 67
	PropertyMinimumOutput                    PropertyIdentifier = 68
	PropertyMinPresValue                     PropertyIdentifier = 69
	PropertyModelName                        PropertyIdentifier = 70
	PropertyModificationDate                 PropertyIdentifier = 71
	PropertyNotifyType                       PropertyIdentifier = 72
	PropertyNumberOfApduRetries              PropertyIdentifier = 73
	PropertyNumberOfStates                   PropertyIdentifier = 74
	PropertyObjectIdentifier                 PropertyIdentifier = 75
	PropertyObjectList                       PropertyIdentifier = 76
	PropertyObjectName                       PropertyIdentifier = 77
	PropertyObjectPropertyReference          PropertyIdentifier = 78
	PropertyObjectType                       PropertyIdentifier = 79
	PropertyOptional                         PropertyIdentifier = 80
	PropertyOutOfService                     PropertyIdentifier = 81
	PropertyOutputUnits                      PropertyIdentifier = 82
	PropertyEventParameters                  PropertyIdentifier = 83
	PropertyPolarity                         PropertyIdentifier = 84
	PropertyPresentValue                     PropertyIdentifier = 85
	PropertyPriority                         PropertyIdentifier = 86
	PropertyPriorityArray                    PropertyIdentifier = 87
	PropertyPriorityForWriting               PropertyIdentifier = 88
	PropertyProcessIdentifier                PropertyIdentifier = 89
	PropertyProgramChange                    PropertyIdentifier = 90
	PropertyProgramLocation                  PropertyIdentifier = 91
	PropertyProgramState                     PropertyIdentifier = 92
	PropertyProportionalConstant             PropertyIdentifier = 93
	PropertyProportionalConstantUnits        PropertyIdentifier = 94
	PropertyProtocolObjectTypesSupported     PropertyIdentifier = 96
	PropertyProtocolServicesSupported        PropertyIdentifier = 97
	PropertyProtocolVersion                  PropertyIdentifier = 98
	PropertyReadOnly                         PropertyIdentifier = 99
	PropertyReasonForHalt                    PropertyIdentifier = 100
	PropertyRecipientList                    PropertyIdentifier = 102
	PropertyReliability                      PropertyIdentifier = 103
	PropertyRelinquishDefault                PropertyIdentifier = 104
	PropertyRequired                         PropertyIdentifier = 105
	PropertyResolution                       PropertyIdentifier = 106
	PropertySegmentationSupported            PropertyIdentifier = 107
	PropertySetpoint                         PropertyIdentifier = 108
	PropertySetpointReference                PropertyIdentifier = 109
	PropertyStateText                        PropertyIdentifier = 110
	PropertyStatusFlags                      PropertyIdentifier = 111
	PropertySystemStatus                     PropertyIdentifier = 112
	PropertyTimeDelay                        PropertyIdentifier = 113
	PropertyTimeOfActiveTimeReset            PropertyIdentifier = 114
	PropertyTimeOfStateCountReset            PropertyIdentifier = 115
	PropertyTimeSynchronizationRecipients    PropertyIdentifier = 116
	PropertyUnits                            PropertyIdentifier = 117
	PropertyUpdateInterval                   PropertyIdentifier = 118
	PropertyUtcOffset                        PropertyIdentifier = 119
	PropertyVendorIdentifier                 PropertyIdentifier = 120
	PropertyVendorName                       PropertyIdentifier = 121
	PropertyVtClassesSupported               PropertyIdentifier = 122
	PropertyWeeklySchedule                   PropertyIdentifier = 123
	PropertyAttemptedSamples                 PropertyIdentifier = 124
	PropertyAverageValue                     PropertyIdentifier = 125
	PropertyBufferSize                       PropertyIdentifier = 126
	PropertyClientCOVIncrement               PropertyIdentifier = 127
	PropertyCOVResubscriptionInterval        PropertyIdentifier = 128
	PropertyEventTimeStamps                  PropertyIdentifier = 130
	PropertyLogBuffer                        PropertyIdentifier = 131
	PropertyLogDeviceObjectProperty          PropertyIdentifier = 132
	PropertyLogEnable                        PropertyIdentifier = 133
	PropertyLogInterval                      PropertyIdentifier = 134
	PropertyMaximumValue                     PropertyIdentifier = 135
	PropertyMinimumValue                     PropertyIdentifier = 136
	PropertyNotificationThreshold            PropertyIdentifier = 137
	PropertyProtocolRevision                 PropertyIdentifier = 139
	PropertyRecordsSinceNotification         PropertyIdentifier = 140
	PropertyRecordCount                      PropertyIdentifier = 141
	PropertyStartTime                        PropertyIdentifier = 142
	PropertyStopTime                         PropertyIdentifier = 143
	PropertyStopWhenFull                     PropertyIdentifier = 144
	PropertyTotalRecordCount                 PropertyIdentifier = 145
	PropertyValidSamples                     PropertyIdentifier = 146
	PropertyWindowInterval                   PropertyIdentifier = 147
	PropertyWindowSamples                    PropertyIdentifier = 148
	PropertyMaximumValueTimestamp            PropertyIdentifier = 149
	PropertyMinimumValueTimestamp            PropertyIdentifier = 150
	PropertyVarianceValue                    PropertyIdentifier = 151
	PropertyActiveCOVSubscriptions           PropertyIdentifier = 152
	PropertyBackupFailureTimeout             PropertyIdentifier = 153
	PropertyConfigurationFiles               PropertyIdentifier = 154
	PropertyDatabaseRevision                 PropertyIdentifier = 155
	PropertyDirectReading                    PropertyIdentifier = 156
	PropertyLastRestoreTime                  PropertyIdentifier = 157
	PropertyMaintenanceRequired              PropertyIdentifier = 158
	PropertyMemberOf                         PropertyIdentifier = 159
	PropertyMode                             PropertyIdentifier = 160
	PropertyOperationExpected                PropertyIdentifier = 161
	PropertySetting                          PropertyIdentifier = 162
	PropertySilenced                         PropertyIdentifier = 163
	PropertyTrackingValue                    PropertyIdentifier = 164
	PropertyZoneMembers                      PropertyIdentifier = 165
	PropertyLifeSafetyAlarmValues            PropertyIdentifier = 166
	PropertyMaxSegmentsAccepted              PropertyIdentifier = 167
	PropertyProfileName                      PropertyIdentifier = 168
	PropertyManualSlaveAddressBinding        PropertyIdentifier = 170
	PropertySlaveAddressBinding              PropertyIdentifier = 171
	PropertyLastNotifyRecord                 PropertyIdentifier = 173
	PropertyCountChangeTime                  PropertyIdentifier = 179
	PropertyInputReference                   PropertyIdentifier = 181
	PropertyUpdateTime                       PropertyIdentifier = 189
	PropertyValueChangeTime                  PropertyIdentifier = 192
	PropertyRestartNotificationRecipients    PropertyIdentifier = 202
	PropertyTimeOfDeviceRestart              PropertyIdentifier = 203
	PropertyUTCTimeSynchronizationRecipients PropertyIdentifier = 206
	PropertySubordinateList                  PropertyIdentifier = 211
	PropertyActualShedLevel                  PropertyIdentifier = 212
	PropertyExpectedShedLevel                PropertyIdentifier = 214
	PropertyRequestedShedLevel               PropertyIdentifier = 218
	PropertyDoorMembers                      PropertyIdentifier = 228
	PropertyAccessDoors                      PropertyIdentifier = 246
	PropertyAccessEventCredential            PropertyIdentifier = 249
	PropertyAccessEventTime                  PropertyIdentifier = 250
	PropertyAccompaniment                    PropertyIdentifier = 252
	PropertyActivationTime                   PropertyIdentifier = 254
	PropertyBelongsTo                        PropertyIdentifier = 262
	PropertyCredentials                      PropertyIdentifier = 265
	PropertyCredentialsInZone                PropertyIdentifier = 266
	PropertyEntryPoints                      PropertyIdentifier = 268
	PropertyExitPoints                       PropertyIdentifier = 269
	PropertyExpirationTime                   PropertyIdentifier = 270
	PropertyLastAccessPoint                  PropertyIdentifier = 276
	PropertyLastCredentialAdded              PropertyIdentifier = 277
	PropertyLastCredentialAddedTime          PropertyIdentifier = 278
	PropertyLastCredentialRemoved            PropertyIdentifier = 279
	PropertyLastCredentialRemovedTime        PropertyIdentifier = 280
	PropertyLastUseTime                      PropertyIdentifier = 281
	PropertyMembers                          PropertyIdentifier = 286
	PropertyZoneFrom                         PropertyIdentifier = 320
	PropertyZoneTo                           PropertyIdentifier = 321
	PropertyGroupMembers                     PropertyIdentifier = 345
	PropertyBACnetIPGlobalAddress            PropertyIdentifier = 407
	PropertyFDBBMDAddress                    PropertyIdentifier = 418
	PropertyRepresents                       PropertyIdentifier = 491
)

var propertyNames = map[PropertyIdentifier]string{
	PropertyAckedTransitions:                 "acked-transitions",
	PropertyAckRequired:                      "ack-required",
	PropertyAction:                           "action",
	PropertyActionText:                       "action-text",
	PropertyActiveText:                       "active-text",
	PropertyActiveVtSessions:                 "active-vt-sessions",
	PropertyAlarmValue:                       "alarm-value",
	PropertyAlarmValues:                      "alarm-values",
	PropertyAll:                              "all",
	PropertyAllWritesSuccessful:              "all-writes-successful",
	PropertyApduSegmentTimeout:               "apdu-segment-timeout",
	PropertyApduTimeout:                      "apdu-timeout",
	PropertyApplicationSoftwareVersion:       "application-software-version",
	PropertyArchive:                          "archive",
	PropertyBias:                             "bias",
	PropertyChangeOfStateCount:               "change-of-state-count",
	PropertyChangeOfStateTime:                "change-of-state-time",
	PropertyNotificationClass:                "notification-class",
	PropertyControlledVariableReference:      "controlled-variable-reference",
	PropertyControlledVariableUnits:          "controlled-variable-units",
	PropertyControlledVariableValue:          "controlled-variable-value",
	PropertyCOVIncrement:                     "cov-increment",
	PropertyDateList:                         "date-list",
	PropertyDaylightSavingsStatus:            "daylight-savings-status",
	PropertyDeadband:                         "deadband",
	PropertyDerivativeConstant:               "derivative-constant",
	PropertyDerivativeConstantUnits:          "derivative-constant-units",
	PropertyDescription:                      "description",
	PropertyDescriptionOfHalt:                "description-of-halt",
	PropertyDeviceAddressBinding:             "device-address-binding",
	PropertyDeviceType:                       "device-type",
	PropertyEffectivePeriod:                  "effective-period",
	PropertyElapsedActiveTime:                "elapsed-active-time",
	PropertyErrorLimit:                       "error-limit",
	PropertyEventEnable:                      "event-enable",
	PropertyEventState:                       "event-state",
	PropertyEventType:                        "event-type",
	PropertyExceptionSchedule:                "exception-schedule",
	PropertyFaultValues:                      "fault-values",
	PropertyFeedbackValue:                    "feedback-value",
	PropertyFileAccessMethod:                 "file-access-method",
	PropertyFileSize:                         "file-size",
	PropertyFileType:                         "file-type",
	PropertyFirmwareRevision:                 "firmware-revision",
	PropertyHighLimit:                        "high-limit",
	PropertyInactiveText:                     "inactive-text",
	PropertyInProcess:                        "in-process",
	PropertyInstanceOf:                       "instance-of",
	PropertyIntegralConstant:                 "integral-constant",
	PropertyIntegralConstantUnits:            "integral-constant-units",
	PropertyLimitEnable:                      "limit-enable",
	PropertyListOfGroupMembers:               "list-of-group-members",
	PropertyListOfObjectPropertyReferences:   "list-of-object-property-references",
	PropertyLocalDate:                        "local-date",
	PropertyLocalTime:                        "local-time",
	PropertyLocation:                         "location",
	PropertyLowLimit:                         "low-limit",
	PropertyManipulatedVariableReference:     "manipulated-variable-reference",
	PropertyMaximumOutput:                    "maximum-output",
	PropertyMaxApduLengthAccepted:            "max-apdu-length-accepted",
	PropertyMaxInfoFrames:                    "max-info-frames",
	PropertyMaxMaster:                        "max-master",
	PropertyMaxPresValue:                     "max-pres-value",
	PropertyMinimumOffTime:                   "minimum-off-time",
	PropertyMinimumOnTime:                    "minimum-on-time",
	PropertyMinimumOutput:                    "minimum-output",
	PropertyMinPresValue:                     "min-pres-value",
	PropertyModelName:                        "model-name",
	PropertyModificationDate:                 "modification-date",
	PropertyNotifyType:                       "notify-type",
	PropertyNumberOfApduRetries:              "number-of-apdu-retries",
	PropertyNumberOfStates:                   "number-of-states",
	PropertyObjectIdentifier:                 "object-identifier",
	PropertyObjectList:                       "object-list",
	PropertyObjectName:                       "object-name",
	PropertyObjectPropertyReference:          "object-property-reference",
	PropertyObjectType:                       "object-type",
	PropertyOptional:                         "optional",
	PropertyOutOfService:                     "out-of-service",
	PropertyOutputUnits:                      "output-units",
	PropertyEventParameters:                  "event-parameters",
	PropertyPolarity:                         "polarity",
	PropertyPresentValue:                     "present-value",
	PropertyPriority:                         "priority",
	PropertyPriorityArray:                    "priority-array",
	PropertyPriorityForWriting:               "priority-for-writing",
	PropertyProcessIdentifier:                "process-identifier",
	PropertyProgramChange:                    "program-change",
	PropertyProgramLocation:                  "program-location",
	PropertyProgramState:                     "program-state",
	PropertyProportionalConstant:             "proportional-constant",
	PropertyProportionalConstantUnits:        "proportional-constant-units",
	PropertyProtocolObjectTypesSupported:     "protocol-object-types-supported",
	PropertyProtocolServicesSupported:        "protocol-services-supported",
	PropertyProtocolVersion:                  "protocol-version",
	PropertyReadOnly:                         "read-only",
	PropertyReasonForHalt:                    "reason-for-halt",
	PropertyRecipientList:                    "recipient-list",
	PropertyReliability:                      "reliability",
	PropertyRelinquishDefault:                "relinquish-default",
	PropertyRequired:                         "required",
	PropertyResolution:                       "resolution",
	PropertySegmentationSupported:            "segmentation-supported",
	PropertySetpoint:                         "setpoint",
	PropertySetpointReference:                "setpoint-reference",
	PropertyStateText:                        "state-text",
	PropertyStatusFlags:                      "status-flags",
	PropertySystemStatus:                     "system-status",
	PropertyTimeDelay:                        "time-delay",
	PropertyTimeOfActiveTimeReset:            "time-of-active-time-reset",
	PropertyTimeOfStateCountReset:            "time-of-state-count-reset",
	PropertyTimeSynchronizationRecipients:    "time-synchronization-recipients",
	PropertyUnits:                            "units",
	PropertyUpdateInterval:                   "update-interval",
	PropertyUtcOffset:                        "utc-offset",
	PropertyVendorIdentifier:                 "vendor-identifier",
	PropertyVendorName:                       "vendor-name",
	PropertyVtClassesSupported:               "vt-classes-supported",
	PropertyWeeklySchedule:                   "weekly-schedule",
	PropertyAttemptedSamples:                 "attempted-samples",
	PropertyAverageValue:                     "average-value",
	PropertyBufferSize:                       "buffer-size",
	PropertyClientCOVIncrement:               "client-cov-increment",
	PropertyCOVResubscriptionInterval:        "cov-resubscription-interval",
	PropertyEventTimeStamps:                  "event-time-stamps",
	PropertyLogBuffer:                        "log-buffer",
	PropertyLogDeviceObjectProperty:          "log-device-object-property",
	PropertyLogEnable:                        "log-enable",
	PropertyLogInterval:                      "log-interval",
	PropertyMaximumValue:                     "maximum-value",
	PropertyMinimumValue:                     "minimum-value",
	PropertyNotificationThreshold:            "notification-threshold",
	PropertyProtocolRevision:                 "protocol-revision",
	PropertyRecordsSinceNotification:         "records-since-notification",
	PropertyRecordCount:                      "record-count",
	PropertyStartTime:                        "start-time",
	PropertyStopTime:                         "stop-time",
	PropertyStopWhenFull:                     "stop-when-full",
	PropertyTotalRecordCount:                 "total-record-count",
	PropertyValidSamples:                     "valid-samples",
	PropertyWindowInterval:                   "window-interval",
	PropertyWindowSamples:                    "window-samples",
	PropertyMaximumValueTimestamp:            "maximum-value-timestamp",
	PropertyMinimumValueTimestamp:            "minimum-value-timestamp",
	PropertyVarianceValue:                    "variance-value",
	PropertyActiveCOVSubscriptions:           "active-cov-subscriptions",
	PropertyBackupFailureTimeout:             "backup-failure-timeout",
	PropertyConfigurationFiles:               "configuration-files",
	PropertyDatabaseRevision:                 "database-revision",
	PropertyDirectReading:                    "direct-reading",
	PropertyLastRestoreTime:                  "last-restore-time",
	PropertyMaintenanceRequired:              "maintenance-required",
	PropertyMemberOf:                         "member-of",
	PropertyMode:                             "mode",
	PropertyOperationExpected:                "operation-expected",
	PropertySetting:                          "setting",
	PropertySilenced:                         "silenced",
	PropertyTrackingValue:                    "tracking-value",
	PropertyZoneMembers:                      "zone-members",
	PropertyLifeSafetyAlarmValues:            "life-safety-alarm-values",
	PropertyMaxSegmentsAccepted:              "max-segments-accepted",
	PropertyProfileName:                      "profile-name",
	PropertyManualSlaveAddressBinding:        "manual-slave-address-binding",
	PropertySlaveAddressBinding:              "slave-address-binding",
	PropertyLastNotifyRecord:                 "last-notify-record",
	PropertyCountChangeTime:                  "count-change-time",
	PropertyInputReference:                   "input-reference",
	PropertyUpdateTime:                       "update-time",
	PropertyValueChangeTime:                  "value-change-time",
	PropertyRestartNotificationRecipients:    "restart-notification-recipients",
	PropertyTimeOfDeviceRestart:              "time-of-device-restart",
	PropertyUTCTimeSynchronizationRecipients: "utc-time-synchronization-recipients",
	PropertySubordinateList:                  "subordinate-list",
	PropertyActualShedLevel:                  "actual-shed-level",
	PropertyExpectedShedLevel:                "expected-shed-level",
	PropertyRequestedShedLevel:               "requested-shed-level",
	PropertyDoorMembers:                      "door-members",
	PropertyAccessDoors:                      "access-doors",
	PropertyAccessEventCredential:            "access-event-credential",
	PropertyAccessEventTime:                  "access-event-time",
	PropertyAccompaniment:                    "accompaniment",
	PropertyActivationTime:                   "activation-time",
	PropertyBelongsTo:                        "belongs-to",
	PropertyCredentials:                      "credentials",
	PropertyCredentialsInZone:                "credentials-in-zone",
	PropertyEntryPoints:                      "entry-points",
	PropertyExitPoints:                       "exit-points",
	PropertyExpirationTime:                   "expiration-time",
	PropertyLastAccessPoint:                  "last-access-point",
	PropertyLastCredentialAdded:              "last-credential-added",
	PropertyLastCredentialAddedTime:          "last-credential-added-time",
	PropertyLastCredentialRemoved:            "last-credential-removed",
	PropertyLastCredentialRemovedTime:        "last-credential-removed-time",
	PropertyLastUseTime:                      "last-use-time",
	PropertyMembers:                          "members",
	PropertyZoneFrom:                         "zone-from",
	PropertyZoneTo:                           "zone-to",
	PropertyGroupMembers:                     "group-members",
	PropertyBACnetIPGlobalAddress:            "bacnet-ip-global-address",
	PropertyFDBBMDAddress:                    "fd-bbmd-address",
	PropertyRepresents:                       "represents",
}

var propertyAliases = map[string]PropertyIdentifier{
	"oid":  PropertyObjectIdentifier,
	"name": PropertyObjectName,
	"type": PropertyObjectType,
	"pv":   PropertyPresentValue,
	"desc": PropertyDescription,
	"sf":   PropertyStatusFlags,
	"oos":  PropertyOutOfService,
	"pa":   PropertyPriorityArray,
	"rd":   PropertyRelinquishDefault,
}

func (p PropertyIdentifier) String() string {
	if name, ok := propertyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("property(%d)", p)
}

// ParsePropertyIdentifier parses a name, an alias or a number to PropertyIdentifier
func ParsePropertyIdentifier(s string) (PropertyIdentifier, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if p, ok := propertyAliases[s]; ok {
		return p, true
	}
	for p, name := range propertyNames {
		if name == s {
			return p, true
		}
	}
	if n, err := strconv.ParseUint(s, 10, 22); err == nil {
		return PropertyIdentifier(n), true
	}
	return 0, false
}

// Object identifier field limits
const (
	MaxObjectType = 0x3FF
	MaxInstance   = 0x3FFFFF
)

// ObjectIdentifier represents a BACnet object identifier (type + instance)
type ObjectIdentifier struct {
	Type     ObjectType
	Instance uint32
}

// NewObjectIdentifier creates a new ObjectIdentifier
func NewObjectIdentifier(objectType ObjectType, instance uint32) ObjectIdentifier {
	return ObjectIdentifier{
		Type:     objectType,
		Instance: instance,
	}
}

// Encode packs the 10 bit type and the 22 bit instance into one word
func (o ObjectIdentifier) Encode() uint32 {
	return (uint32(o.Type)&MaxObjectType)<<22 | (o.Instance & MaxInstance)
}

// DecodeObjectIdentifier unpacks a word into an ObjectIdentifier
func DecodeObjectIdentifier(value uint32) ObjectIdentifier {
	return ObjectIdentifier{
		Type:     ObjectType((value >> 22) & MaxObjectType),
		Instance: value & MaxInstance,
	}
}

func (o ObjectIdentifier) String() string {
	return fmt.Sprintf("%s:%d", o.Type.String(), o.Instance)
}

// ParseObjectIdentifier parses "type:instance", e.g. "analog-input:1" or "ai:1"
func ParseObjectIdentifier(s string) (ObjectIdentifier, error) {
	typ, inst, ok := strings.Cut(s, ":")
	if !ok {
		return ObjectIdentifier{}, fmt.Errorf("invalid object identifier %q: expected type:instance", s)
	}
	objectType, ok := ParseObjectType(typ)
	if !ok {
		return ObjectIdentifier{}, fmt.Errorf("unknown object type %q", typ)
	}
	instance, err := strconv.ParseUint(inst, 10, 32)
	if err != nil || instance > MaxInstance {
		return ObjectIdentifier{}, fmt.Errorf("invalid instance %q", inst)
	}
	return NewObjectIdentifier(objectType, uint32(instance)), nil
}

// TagClass distinguishes application tags from context specific tags
type TagClass uint8

const (
	TagClassApplication TagClass = 0
	TagClassContext     TagClass = 1
)

func (c TagClass) String() string {
	if c == TagClassContext {
		return "context"
	}
	return "application"
}

// ApplicationTag identifies the kind of a value. Numbers 0 to 12 are the
// application tag numbers used on the wire. The remaining kinds never appear
// as a tag number; they name the compound values the decoder builds.
type ApplicationTag uint8

const (
	TagNull            ApplicationTag = 0
	TagBoolean         ApplicationTag = 1
	TagUnsignedInt     ApplicationTag = 2
	TagSignedInt       ApplicationTag = 3
	TagReal            ApplicationTag = 4
	TagDouble          ApplicationTag = 5
	TagOctetString     ApplicationTag = 6
	TagCharacterString ApplicationTag = 7
	TagBitString       ApplicationTag = 8
	TagEnumerated      ApplicationTag = 9
	TagDate            ApplicationTag = 10
	TagTime            ApplicationTag = 11
	TagObjectID        ApplicationTag = 12
)

// Compound and structural kinds
const (
	TagEmptyList ApplicationTag = iota + 20
	TagWeekNDay
	TagDateTime
	TagDateRange
	TagTimeStamp
	TagDeviceObjectReference
	TagDeviceObjectPropertyReference
	TagObjectPropertyReference
	TagRecipient
	TagDestination
	TagCOVSubscription
	TagCalendarEntry
	TagTimeValue
	TagDailySchedule
	TagWeeklySchedule
	TagSpecialEvent
	TagHostNPort
	TagConstructed
	TagOpaque
)

const (
	// TagInvalid marks an undecodable value and an unknown table entry.
	TagInvalid ApplicationTag = 0xFF
)

// maxApplicationTag is the highest tag number with a primitive encoding.
const maxApplicationTag = TagObjectID

var applicationTagNames = map[ApplicationTag]string{
	TagNull:                          "null",
	TagBoolean:                       "boolean",
	TagUnsignedInt:                   "unsigned",
	TagSignedInt:                     "signed",
	TagReal:                          "real",
	TagDouble:                        "double",
	TagOctetString:                   "octet-string",
	TagCharacterString:               "character-string",
	TagBitString:                     "bit-string",
	TagEnumerated:                    "enumerated",
	TagDate:                          "date",
	TagTime:                          "time",
	TagObjectID:                      "object-identifier",
	TagEmptyList:                     "empty-list",
	TagWeekNDay:                      "week-n-day",
	TagDateTime:                      "datetime",
	TagDateRange:                     "date-range",
	TagTimeStamp:                     "timestamp",
	TagDeviceObjectReference:         "device-object-reference",
	TagDeviceObjectPropertyReference: "device-object-property-reference",
	TagObjectPropertyReference:       "object-property-reference",
	TagRecipient:                     "recipient",
	TagDestination:                   "destination",
	TagCOVSubscription:               "cov-subscription",
	TagCalendarEntry:                 "calendar-entry",
	TagTimeValue:                     "time-value",
	TagDailySchedule:                 "daily-schedule",
	TagWeeklySchedule:                "weekly-schedule",
	TagSpecialEvent:                  "special-event",
	TagHostNPort:                     "host-n-port",
	TagConstructed:                   "constructed",
	TagOpaque:                        "opaque",
	TagInvalid:                       "invalid",
}

func (t ApplicationTag) String() string {
	if name, ok := applicationTagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tag(%d)", t)
}

// ParseApplicationTag parses a kind name as printed by String
func ParseApplicationTag(s string) (ApplicationTag, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "uint", "u":
		return TagUnsignedInt, true
	case "int", "i":
		return TagSignedInt, true
	case "bool":
		return TagBoolean, true
	case "enum":
		return TagEnumerated, true
	case "oid":
		return TagObjectID, true
	case "string", "str":
		return TagCharacterString, true
	case "octets", "hex":
		return TagOctetString, true
	case "bits":
		return TagBitString, true
	}
	for tag, name := range applicationTagNames {
		if name == s {
			return tag, true
		}
	}
	return TagInvalid, false
}

// IsPrimitive reports whether the kind has a primitive wire encoding
func (t ApplicationTag) IsPrimitive() bool {
	return t <= maxApplicationTag
}

// CharacterSet selects the encoding of a character string
type CharacterSet uint8

const (
	CharacterSetUTF8     CharacterSet = 0 // ANSI X3.4, now UTF-8
	CharacterSetDBCS     CharacterSet = 1
	CharacterSetJISX0208 CharacterSet = 2
	CharacterSetUCS4     CharacterSet = 3
	CharacterSetUCS2     CharacterSet = 4
	CharacterSetISO88591 CharacterSet = 5
)

// Address represents a BACnet address
type Address struct {
	Net  uint16
	Addr []byte
}

func (a Address) String() string {
	return fmt.Sprintf("%d:%X", a.Net, a.Addr)
}
