package mapper

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charging-platform/oicp-roaming/internal/codec"
	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/domain/oicp"
	"github.com/charging-platform/oicp-roaming/internal/transport"
)

func str(s string) *string { return &s }

func TestReservationAcknowledgement_Exhaustive(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range emobility.AllReservationResults() {
		ack, err := ReservationAcknowledgement(r, str("s-1"), str("p-1"))
		require.NoError(t, err, r.String())
		require.NotNil(t, ack.StatusCode, r.String())
		assert.NotEmpty(t, *ack.StatusCode.Description, r.String())
		assert.Equal(t, r == emobility.ReservationSuccess, ack.Result, r.String())
		assert.Equal(t, "s-1", *ack.SessionID)
		assert.Equal(t, "p-1", *ack.PartnerSessionID)
		seen[ack.StatusCode.Code] = true
	}
	assert.True(t, seen[oicp.StatusCodeEVSEAlreadyReserved])
}

func TestCancelReservationAcknowledgement_Exhaustive(t *testing.T) {
	for _, r := range emobility.AllCancelReservationResults() {
		ack, err := CancelReservationAcknowledgement(r, nil, nil)
		require.NoError(t, err, r.String())
		assert.Equal(t, r == emobility.CancelReservationSuccess, ack.Result, r.String())
	}
}

func TestRemoteStartAcknowledgement_Exhaustive(t *testing.T) {
	for _, r := range emobility.AllRemoteStartResults() {
		ack, err := RemoteStartAcknowledgement(r, nil, nil)
		require.NoError(t, err, r.String())
		assert.Equal(t, r == emobility.RemoteStartSuccess, ack.Result, r.String())
	}
}

func TestRemoteStopAcknowledgement_Exhaustive(t *testing.T) {
	for _, r := range emobility.AllRemoteStopResults() {
		ack, err := RemoteStopAcknowledgement(r, nil, nil)
		require.NoError(t, err, r.String())
		assert.Equal(t, r == emobility.RemoteStopSuccess, ack.Result, r.String())
	}
}

func TestAcknowledgement_UnmappedVariantFailsLoudly(t *testing.T) {
	tests := []struct {
		name string
		call func() error
	}{
		{"reservation", func() error { _, err := ReservationAcknowledgement(0, nil, nil); return err }},
		{"cancel reservation", func() error { _, err := CancelReservationAcknowledgement(99, nil, nil); return err }},
		{"remote start", func() error { _, err := RemoteStartAcknowledgement(99, nil, nil); return err }},
		{"remote stop", func() error { _, err := RemoteStopAcknowledgement(0, nil, nil); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var unmapped UnmappedOutcomeError
			require.True(t, errors.As(tt.call(), &unmapped))
		})
	}
}

func TestAcknowledgementCodes(t *testing.T) {
	tests := []struct {
		name string
		ack  func() (oicp.Acknowledgement, error)
		code string
	}{
		{"reservation unknown EVSE", func() (oicp.Acknowledgement, error) {
			return ReservationAcknowledgement(emobility.ReservationUnknownEVSE, nil, nil)
		}, oicp.StatusCodeUnknownEVSEID},
		{"reservation out of service", func() (oicp.Acknowledgement, error) {
			return ReservationAcknowledgement(emobility.ReservationOutOfService, nil, nil)
		}, oicp.StatusCodeEVSEOutOfService},
		{"remote start no EV", func() (oicp.Acknowledgement, error) {
			return RemoteStartAcknowledgement(emobility.RemoteStartNoEVConnected, nil, nil)
		}, oicp.StatusCodeNoEVConnectedToEVSE},
		{"remote stop invalid session", func() (oicp.Acknowledgement, error) {
			return RemoteStopAcknowledgement(emobility.RemoteStopInvalidSessionID, nil, nil)
		}, oicp.StatusCodeSessionIsInvalid},
		{"cancel unknown reservation", func() (oicp.Acknowledgement, error) {
			return CancelReservationAcknowledgement(emobility.CancelReservationUnknownReservation, nil, nil)
		}, oicp.StatusCodeSessionIsInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack, err := tt.ack()
			require.NoError(t, err)
			assert.False(t, ack.Result)
			assert.Equal(t, tt.code, ack.StatusCode.Code)
		})
	}
}

func TestServiceNotAvailable(t *testing.T) {
	ack := ServiceNotAvailable(str("s"), nil, "no handler registered")

	assert.False(t, ack.Result)
	assert.Equal(t, oicp.StatusCodeServiceNotAvailable, ack.StatusCode.Code)
	assert.Equal(t, "Service not available", *ack.StatusCode.Description)
	assert.Equal(t, "no handler registered", *ack.StatusCode.AdditionalInfo)
	assert.Equal(t, "s", *ack.SessionID)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want emobility.Outcome
	}{
		{nil, emobility.OutcomeCompleted},
		{codec.ProtocolFault{Code: "017"}, emobility.OutcomeRejected},
		{codec.ValidationError{Field: "SearchCenter"}, emobility.OutcomeInvalidRequest},
		{codec.MalformedResponseError{Message: "x"}, emobility.OutcomeMalformedResponse},
		{transport.ErrTimeout, emobility.OutcomeTimeout},
		{fmt.Errorf("send: %w", context.DeadlineExceeded), emobility.OutcomeTimeout},
		{transport.ErrCancelled, emobility.OutcomeCancelled},
		{transport.TransportError{Endpoint: "/x", Cause: context.Canceled}, emobility.OutcomeCancelled},
		{transport.TransportError{Endpoint: "/x", StatusCode: 502}, emobility.OutcomeCommunicationError},
		{errors.New("connection refused"), emobility.OutcomeCommunicationError},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestAuthorizeStart(t *testing.T) {
	t.Run("authorized", func(t *testing.T) {
		res := AuthorizeStart(&oicp.AuthorizationStart{
			SessionID:           str("sess-1"),
			ProviderID:          str("DE*XYZ"),
			AuthorizationStatus: oicp.AuthorizationStatusAuthorized,
			StatusCode:          &oicp.StatusCode{Code: "000"},
			AuthorizationStopIdentifications: []oicp.Identification{
				{RFIDMifareFamily: &oicp.RFIDMifareFamilyIdentification{UID: "AABBCCDD"}},
			},
		}, nil)

		assert.Equal(t, emobility.Authorized, res.Status)
		assert.Equal(t, emobility.OutcomeCompleted, res.Outcome)
		assert.Equal(t, "sess-1", *res.SessionID)
		assert.Equal(t, emobility.ProviderID("DE*XYZ"), *res.ProviderID)
		require.Len(t, res.StopIdentifications, 1)
		assert.Equal(t, "AABBCCDD", res.StopIdentifications[0].UID)
	})

	t.Run("not authorized keeps description verbatim", func(t *testing.T) {
		res := AuthorizeStart(&oicp.AuthorizationStart{
			AuthorizationStatus: oicp.AuthorizationStatusNotAuthorized,
			StatusCode:          &oicp.StatusCode{Code: "017", Description: str("Unauthorized Access"), AdditionalInfo: str("card blocked")},
		}, nil)

		assert.Equal(t, emobility.NotAuthorized, res.Status)
		assert.Equal(t, "Unauthorized Access", res.Description)
		require.NotNil(t, res.StatusCode)
		assert.Equal(t, "017", res.StatusCode.Code)
		assert.Equal(t, "card blocked", res.StatusCode.AdditionalInfo)
	})

	t.Run("missing status code", func(t *testing.T) {
		res := AuthorizeStart(&oicp.AuthorizationStart{AuthorizationStatus: oicp.AuthorizationStatusAuthorized}, nil)

		require.NotNil(t, res)
		assert.Equal(t, emobility.AuthorizationError, res.Status)
		assert.Equal(t, MissingStatusCode, res.Description)
	})

	t.Run("transport failure", func(t *testing.T) {
		res := AuthorizeStart(nil, transport.ErrTimeout)

		assert.Equal(t, emobility.NotAuthorized, res.Status)
		assert.Equal(t, emobility.OutcomeTimeout, res.Outcome)
	})

	t.Run("soap fault", func(t *testing.T) {
		res := AuthorizeStop(nil, codec.ProtocolFault{Code: "soap:Server", Description: "boom"})

		assert.Equal(t, emobility.NotAuthorized, res.Status)
		assert.Equal(t, emobility.OutcomeRejected, res.Outcome)
		assert.Equal(t, "boom", res.Description)
	})

	t.Run("nil response without error", func(t *testing.T) {
		res := AuthorizeStop(nil, nil)
		require.NotNil(t, res)
		assert.Equal(t, emobility.NotAuthorized, res.Status)
		assert.Equal(t, emobility.OutcomeMalformedResponse, res.Outcome)
	})
}

func faultFor(code string) error {
	ack := &oicp.Acknowledgement{Result: false, StatusCode: &oicp.StatusCode{Code: code}, SessionID: str("s-9")}
	return codec.ProtocolFault{Code: code, Acknowledgement: ack}
}

func TestReservation_FromAcknowledgement(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want emobility.ReservationResult
	}{
		{"success", nil, emobility.ReservationSuccess},
		{"already reserved", faultFor(oicp.StatusCodeEVSEAlreadyReserved), emobility.ReservationAlreadyReserved},
		{"in use", faultFor(oicp.StatusCodeEVSEAlreadyInUse), emobility.ReservationAlreadyInUse},
		{"unknown evse", faultFor(oicp.StatusCodeUnknownEVSEID), emobility.ReservationUnknownEVSE},
		{"out of service", faultFor(oicp.StatusCodeEVSEOutOfService), emobility.ReservationOutOfService},
		{"credentials", faultFor(oicp.StatusCodeRFIDAuthenticationFailed), emobility.ReservationInvalidCredentials},
		{"unknown code", faultFor("999"), emobility.ReservationError},
		{"timeout", transport.ErrTimeout, emobility.ReservationTimeout},
		{"cancelled", transport.ErrCancelled, emobility.ReservationCommunicationError},
		{"malformed", codec.MalformedResponseError{}, emobility.ReservationError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ack *oicp.Acknowledgement
			if tt.err == nil {
				ack = &oicp.Acknowledgement{Result: true, StatusCode: &oicp.StatusCode{Code: "000"}, SessionID: str("s-1")}
			}
			res := Reservation(ack, tt.err)
			assert.Equal(t, tt.want, res.Result)
		})
	}
}

func TestRejectedCarriesSessionFromFault(t *testing.T) {
	res := RemoteStart(nil, faultFor(oicp.StatusCodeNoEVConnectedToEVSE))

	assert.Equal(t, emobility.RemoteStartNoEVConnected, res.Result)
	assert.Equal(t, emobility.OutcomeRejected, res.Outcome)
	require.NotNil(t, res.SessionID)
	assert.Equal(t, "s-9", *res.SessionID)
}

func TestRemoteStopAndCancel_FromAcknowledgement(t *testing.T) {
	assert.Equal(t, emobility.RemoteStopInvalidSessionID, RemoteStop(nil, faultFor(oicp.StatusCodeSessionIsInvalid)).Result)
	assert.Equal(t, emobility.RemoteStopTimeout, RemoteStop(nil, transport.ErrTimeout).Result)
	assert.Equal(t, emobility.CancelReservationUnknownReservation, CancelReservation(nil, faultFor(oicp.StatusCodeSessionIsInvalid)).Result)
	assert.Equal(t, emobility.CancelReservationSuccess, CancelReservation(&oicp.Acknowledgement{Result: true}, nil).Result)
}

func TestPushAndChargeRecord(t *testing.T) {
	ok := &oicp.Acknowledgement{Result: true, StatusCode: &oicp.StatusCode{Code: "000"}}

	push := Push(emobility.ActionInsert, 3, ok, nil)
	assert.Equal(t, emobility.PushSuccess, push.Status)
	assert.Equal(t, 3, push.RecordCount)
	assert.Equal(t, "Insert 3 record(s): Success", push.Summary())

	assert.Equal(t, emobility.PushRejected, Push(emobility.ActionUpdate, 1, nil, faultFor("009")).Status)
	assert.Equal(t, emobility.PushInvalidRequest, Push(emobility.ActionInsert, 0, nil, codec.ValidationError{}).Status)

	assert.Equal(t, emobility.SendCDRForwarded, SendChargeRecord(ok, nil).Status)
	assert.Equal(t, emobility.SendCDRInvalidSessionID, SendChargeRecord(nil, faultFor(oicp.StatusCodeSessionIsInvalid)).Status)
	assert.Equal(t, emobility.SendCDRCommunicationError, SendChargeRecord(nil, errors.New("reset")).Status)
}

func TestPullStatus(t *testing.T) {
	resp := &oicp.EvseStatus{
		OperatorEvseStatus: []oicp.OperatorEvseStatus{{
			OperatorID:       "DE*ABC",
			EvseStatusRecord: []oicp.EvseStatusRecord{{EvseID: "DE*ABC*E1", EvseStatus: oicp.EvseStatusAvailable}},
		}},
	}

	res := PullStatus(resp, nil)
	assert.Equal(t, emobility.PullSuccess, res.Status)
	require.Len(t, res.Operators, 1)
	assert.Equal(t, emobility.StatusAvailable, res.Operators[0].Records[0].Status)

	failed := PullStatus(&oicp.EvseStatus{StatusCode: &oicp.StatusCode{Code: "017"}}, codec.ProtocolFault{Code: "017"})
	assert.Equal(t, emobility.PullRejected, failed.Status)
	assert.Empty(t, failed.Operators)
	assert.Equal(t, "017", failed.StatusCode.Code)
}
