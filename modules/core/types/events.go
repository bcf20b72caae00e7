package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ErrorAttributeKeySuffix is appended to the attribute keys of events emitted by
// an application callback whose state changes were discarded.
const ErrorAttributeKeySuffix = "-error"

// ConvertToErrorEvents converts all events to error events by appending the
// error attribute suffix to each event's attribute key.
func ConvertToErrorEvents(events sdk.Events) sdk.Events {
	if events == nil {
		return nil
	}

	newEvents := make(sdk.Events, len(events))
	for i, event := range events {
		newAttributes := make([]sdk.Attribute, len(event.Attributes))
		for j, attribute := range event.Attributes {
			newAttributes[j] = sdk.NewAttribute(string(attribute.Key)+ErrorAttributeKeySuffix, string(attribute.Value))
		}

		// the event type is kept as is, only attribute values can be misread
		newEvents[i] = sdk.NewEvent(event.Type, newAttributes...)
	}

	return newEvents
}
