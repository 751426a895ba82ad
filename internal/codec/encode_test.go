package codec

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/domain/oicp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOperator = emobility.OperatorID("DE*ABC")
	testProvider = emobility.ProviderID("DE-XYZ")
)

func testStation(id string) emobility.StationRecord {
	return emobility.StationRecord{
		EVSEID:     emobility.EVSEID(id),
		OperatorID: testOperator,
		Address: &emobility.Address{
			Country:     "DEU",
			City:        "Jena",
			Street:      "Markt",
			PostalCode:  "07743",
			HouseNumber: "1",
		},
		GeoCoordinates:      &emobility.GeoCoordinates{Latitude: 50.927054, Longitude: 11.58924},
		Plugs:               []string{"Type2Outlet"},
		AuthenticationModes: []string{"NFC RFID Classic", "REMOTE"},
		IsOpen24Hours:       true,
	}
}

func assertValidationError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var verr ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %T: %v", err, err)
	assert.Equal(t, field, verr.Field)
}

func TestEncodeStationPush(t *testing.T) {
	msg, err := EncodeStationPush([]emobility.StationRecord{testStation("DE*ABC*E1")}, emobility.ActionInsert, testOperator, nil)
	require.NoError(t, err)

	payload := string(msg.Payload)
	assert.Equal(t, oicp.OperationPushEvseData, msg.Operation)
	assert.Equal(t, oicp.RootPushEvseData, msg.Root)
	assert.True(t, strings.HasPrefix(payload, "<?xml"))
	assert.Contains(t, payload, `<eRoamingPushEvseData xmlns="`+oicp.NamespaceEVSEData+`">`)
	assert.Contains(t, payload, "<ActionType>insert</ActionType>")
	assert.Contains(t, payload, "<OperatorID>DE*ABC</OperatorID>")
	assert.Contains(t, payload, "<Latitude>50.927054</Latitude>")
	assert.Contains(t, payload, "<Longitude>11.589240</Longitude>")
	assert.Contains(t, payload, "<Plugs><Plug>Type2Outlet</Plug></Plugs>")
	assert.NotContains(t, payload, "OperatorName")
	assert.NotContains(t, payload, "ChargingFacilities")
	assert.Equal(t, len(msg.Payload), msg.Size())
}

func TestEncodeStationPush_AbsentVersusEmptyLists(t *testing.T) {
	station := testStation("DE*ABC*E1")
	station.PaymentOptions = []string{}

	msg, err := EncodeStationPush([]emobility.StationRecord{station}, emobility.ActionInsert, testOperator, nil)
	require.NoError(t, err)

	payload := string(msg.Payload)
	assert.Contains(t, payload, "<PaymentOptions></PaymentOptions>")
	assert.NotContains(t, payload, "ChargingFacilities")
	assert.Contains(t, payload, "<AuthenticationModes><AuthenticationMode>NFC RFID Classic</AuthenticationMode><AuthenticationMode>REMOTE</AuthenticationMode></AuthenticationModes>")

	back, err := DecodeStationPush(msg.Payload)
	require.NoError(t, err)
	require.Len(t, back.Records, 1)
	got := back.Records[0]
	assert.NotNil(t, got.PaymentOptions)
	assert.Empty(t, got.PaymentOptions)
	assert.Nil(t, got.ChargingFacilities)
	assert.Equal(t, station.Plugs, got.Plugs)
}

func TestEncodeChargeRecord_AbsentVersusEmptyMeterValues(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	cdr := emobility.ChargeDetailRecord{
		SessionID:      "s-1",
		EVSEID:         "DE*ABC*E1",
		Identification: emobility.RFID("AABBCCDD"),
		SessionStart:   start,
		SessionEnd:     start.Add(time.Hour),
	}

	msg, err := EncodeSendChargeRecord(emobility.SendChargeRecordRequest{Record: cdr})
	require.NoError(t, err)
	assert.NotContains(t, string(msg.Payload), "MeterValueInBetween")

	cdr.MeterValuesInBetween = []float64{}
	msg, err = EncodeSendChargeRecord(emobility.SendChargeRecordRequest{Record: cdr})
	require.NoError(t, err)
	assert.Contains(t, string(msg.Payload), "<MeterValueInBetween></MeterValueInBetween>")

	back, err := DecodeChargeRecord(msg.Payload)
	require.NoError(t, err)
	assert.NotNil(t, back.MeterValuesInBetween)
	assert.Empty(t, back.MeterValuesInBetween)
}

func TestEncodeStationPush_Validation(t *testing.T) {
	tests := []struct {
		name    string
		records []emobility.StationRecord
		action  emobility.SyncAction
		field   string
	}{
		{
			name:   "empty insert",
			action: emobility.ActionInsert,
			field:  "EvseDataRecord",
		},
		{
			name:   "empty delete",
			action: emobility.ActionDelete,
			field:  "EvseDataRecord",
		},
		{
			name: "address without street",
			records: func() []emobility.StationRecord {
				r := testStation("DE*ABC*E1")
				r.Address = &emobility.Address{Country: "DEU", City: "Jena"}
				return []emobility.StationRecord{r}
			}(),
			action: emobility.ActionUpdate,
			field:  "EvseDataRecord",
		},
		{
			name: "record of another operator",
			records: func() []emobility.StationRecord {
				r := testStation("DE*ABC*E1")
				r.OperatorID = "DE*OTH"
				return []emobility.StationRecord{r}
			}(),
			action: emobility.ActionUpdate,
			field:  "OperatorID",
		},
		{
			name:    "unknown action",
			records: []emobility.StationRecord{testStation("DE*ABC*E1")},
			action:  emobility.SyncAction(0),
			field:   "ActionType",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeStationPush(tt.records, tt.action, testOperator, nil)
			assertValidationError(t, err, tt.field)
		})
	}
}

func TestEncodeStationPush_FullLoadMayBeEmpty(t *testing.T) {
	msg, err := EncodeStationPush(nil, emobility.ActionFullLoad, testOperator, ptr("ABC Charging"))
	require.NoError(t, err)
	assert.Contains(t, string(msg.Payload), "<ActionType>fullLoad</ActionType>")
	assert.Contains(t, string(msg.Payload), "<OperatorName>ABC Charging</OperatorName>")
}

func TestEncodeStationPush_AddressIsOptional(t *testing.T) {
	r := testStation("DE*ABC*E1")
	r.Address = nil

	msg, err := EncodeStationPush([]emobility.StationRecord{r}, emobility.ActionUpdate, testOperator, nil)
	require.NoError(t, err)
	assert.NotContains(t, string(msg.Payload), "<Address>")
}

func TestEncodeStatusPush(t *testing.T) {
	records := []emobility.StatusRecord{
		{ID: "DE*ABC*E1", Status: emobility.StatusOccupied},
		{ID: "DE*ABC*E2", Status: emobility.StatusAvailable},
	}
	msg, err := EncodeStatusPush(records, emobility.ActionUpdate, testOperator, nil)
	require.NoError(t, err)

	payload := string(msg.Payload)
	assert.Contains(t, payload, `xmlns="`+oicp.NamespaceEVSEStatus+`"`)
	assert.Contains(t, payload, "<EvseStatusRecord><EvseId>DE*ABC*E1</EvseId><EvseStatus>Occupied</EvseStatus></EvseStatusRecord>")
	assert.Contains(t, payload, "<ActionType>update</ActionType>")

	_, err = EncodeStatusPush([]emobility.StatusRecord{{ID: "DE*ABC*E1"}}, emobility.ActionUpdate, testOperator, nil)
	assertValidationError(t, err, "EvseStatus")

	_, err = EncodeStatusPush(records, emobility.ActionUpdate, "not-an-operator", nil)
	assertValidationError(t, err, "OperatorID")
}

func TestEncodeAuthorizeStart(t *testing.T) {
	evse := emobility.EVSEID("DE*ABC*E1")
	msg, err := EncodeAuthorizeStart(emobility.AuthorizeStartRequest{
		OperatorID:       testOperator,
		Identification:   emobility.RFID("AABBCCDD"),
		EVSEID:           &evse,
		PartnerProductID: ptr("AC1"),
	})
	require.NoError(t, err)

	payload := string(msg.Payload)
	assert.Contains(t, payload, "<RFIDmifarefamilyIdentification><UID>AABBCCDD</UID></RFIDmifarefamilyIdentification>")
	assert.Contains(t, payload, "<EVSEID>DE*ABC*E1</EVSEID>")
	assert.NotContains(t, payload, "<SessionID>")

	_, err = EncodeAuthorizeStart(emobility.AuthorizeStartRequest{OperatorID: testOperator})
	assertValidationError(t, err, "Identification")
}

func TestEncode_AbsentAndEmptyAreDistinct(t *testing.T) {
	absent := emobility.Identification{Kind: emobility.IdentificationQRCode, EVCOID: "DE*XYZ*C12345678*9"}
	empty := absent
	empty.PIN = ptr("")

	msgAbsent, err := EncodeAuthorizeStart(emobility.AuthorizeStartRequest{OperatorID: testOperator, Identification: absent})
	require.NoError(t, err)
	msgEmpty, err := EncodeAuthorizeStart(emobility.AuthorizeStartRequest{OperatorID: testOperator, Identification: empty})
	require.NoError(t, err)

	assert.NotContains(t, string(msgAbsent.Payload), "PIN")
	assert.Contains(t, string(msgEmpty.Payload), "<PIN></PIN>")

	back, err := DecodeAuthorizeStart(msgEmpty.Payload)
	require.NoError(t, err)
	require.NotNil(t, back.Identification.PIN)
	assert.Equal(t, "", *back.Identification.PIN)

	back, err = DecodeAuthorizeStart(msgAbsent.Payload)
	require.NoError(t, err)
	assert.Nil(t, back.Identification.PIN)
}

func TestEncodeReserve(t *testing.T) {
	dur := 30 * time.Minute
	msg, err := EncodeReserve(emobility.ReserveRequest{
		ProviderID:     testProvider,
		EVSEID:         "DE*ABC*E1",
		Identification: emobility.RemoteEVCO("DE*XYZ*C12345678*9"),
		SessionID:      ptr("b2c3"),
		Product:        &emobility.ProductDescriptor{Product: "AC1", Duration: &dur},
	})
	require.NoError(t, err)

	payload := string(msg.Payload)
	assert.Equal(t, oicp.RootAuthorizeRemoteReservationStart, msg.Root)
	assert.Contains(t, payload, `xmlns="`+oicp.NamespaceReservation+`"`)
	assert.Contains(t, payload, "<PartnerProductID>P=AC1|D=30min</PartnerProductID>")
	assert.Contains(t, payload, "<SessionID>b2c3</SessionID>")
}

func TestEncodeRemoteStart_DurationPrecision(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
		field    string
	}{
		{name: "whole seconds", duration: 90 * time.Second, want: "<PartnerProductID>P=AC1|D=90sec</PartnerProductID>"},
		{name: "sub-second", duration: 1500 * time.Millisecond, field: "PartnerProductID"},
		{name: "negative", duration: -time.Minute, field: "PartnerProductID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dur := tt.duration
			msg, err := EncodeRemoteStart(emobility.RemoteStartRequest{
				ProviderID:     testProvider,
				EVSEID:         "DE*ABC*E1",
				Identification: emobility.RFID("08152305"),
				Product:        &emobility.ProductDescriptor{Product: "AC1", Duration: &dur},
			})
			if tt.field != "" {
				assertValidationError(t, err, tt.field)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, string(msg.Payload), tt.want)
		})
	}
}

func TestEncodeRemoteStop_RequiresSession(t *testing.T) {
	_, err := EncodeRemoteStop(emobility.RemoteStopRequest{ProviderID: testProvider, EVSEID: "DE*ABC*E1"})
	assertValidationError(t, err, "SessionID")

	_, err = EncodeCancelReservation(emobility.CancelReservationRequest{ProviderID: testProvider, EVSEID: "E1", SessionID: "s"})
	assertValidationError(t, err, "EvseID")
}

func TestEncodeSendChargeRecord(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	cdr := emobility.ChargeDetailRecord{
		SessionID:            "s-1",
		EVSEID:               "DE*ABC*E1",
		Identification:       emobility.RFID("AABBCCDD"),
		SessionStart:         start,
		SessionEnd:           start.Add(90 * time.Minute),
		MeterValueStart:      ptr(1000.5),
		MeterValueEnd:        ptr(1022.25),
		MeterValuesInBetween: []float64{1010, 1020.125},
		ConsumedEnergy:       ptr(21.75),
	}
	msg, err := EncodeSendChargeRecord(emobility.SendChargeRecordRequest{Record: cdr})
	require.NoError(t, err)

	payload := string(msg.Payload)
	assert.Contains(t, payload, "<SessionStart>2024-03-01T09:00:00.000Z</SessionStart>")
	assert.Contains(t, payload, "<ConsumedEnergy>21.75</ConsumedEnergy>")
	assert.Contains(t, payload, "<MeterValueInBetween><MeterValue>1010</MeterValue><MeterValue>1020.125</MeterValue></MeterValueInBetween>")

	cdr.SessionEnd = start.Add(-time.Minute)
	_, err = EncodeSendChargeRecord(emobility.SendChargeRecordRequest{Record: cdr})
	assertValidationError(t, err, "SessionEnd")
}

func TestEncodePullStatus_SearchCenter(t *testing.T) {
	center := &emobility.GeoCoordinates{Latitude: 50.9, Longitude: 11.5}

	t.Run("zero radius omits filter", func(t *testing.T) {
		msg, err := EncodePullStatus(emobility.PullStatusRequest{ProviderID: testProvider, SearchCenter: center})
		require.NoError(t, err)
		assert.NotContains(t, string(msg.Payload), "SearchCenter")
	})

	t.Run("positive radius emits filter", func(t *testing.T) {
		msg, err := EncodePullStatus(emobility.PullStatusRequest{ProviderID: testProvider, SearchCenter: center, RadiusKM: 2.5})
		require.NoError(t, err)
		assert.Contains(t, string(msg.Payload), "<Radius>2.5</Radius>")
		assert.Contains(t, string(msg.Payload), "<Latitude>50.900000</Latitude>")
	})

	t.Run("negative radius rejected", func(t *testing.T) {
		_, err := EncodePullStatus(emobility.PullStatusRequest{ProviderID: testProvider, SearchCenter: center, RadiusKM: -1})
		assertValidationError(t, err, "Radius")
	})

	t.Run("status filter", func(t *testing.T) {
		st := emobility.StatusAvailable
		msg, err := EncodePullStatus(emobility.PullStatusRequest{ProviderID: testProvider, StatusFilter: &st})
		require.NoError(t, err)
		assert.Contains(t, string(msg.Payload), "<EvseStatus>Available</EvseStatus>")
	})
}

func TestEncodePullData_CenterAndLastCallRejected(t *testing.T) {
	lastCall := time.Now()
	_, err := EncodePullData(emobility.PullDataRequest{
		ProviderID:   testProvider,
		SearchCenter: &emobility.GeoCoordinates{Latitude: 50.9, Longitude: 11.5},
		RadiusKM:     10,
		LastCall:     &lastCall,
	})
	assertValidationError(t, err, "SearchCenter")

	msg, err := EncodePullData(emobility.PullDataRequest{ProviderID: testProvider, LastCall: &lastCall})
	require.NoError(t, err)
	assert.Contains(t, string(msg.Payload), "<LastCall>")
	assert.Contains(t, string(msg.Payload), "<GeoCoordinatesResponseFormat>DecimalDegree</GeoCoordinatesResponseFormat>")
}

func TestEncodePullStatusByID_Limits(t *testing.T) {
	_, err := EncodePullStatusByID(emobility.PullStatusByIDRequest{ProviderID: testProvider})
	assertValidationError(t, err, "EvseId")

	ids := make([]emobility.EVSEID, MaxPullByIDCount+1)
	for i := range ids {
		ids[i] = "DE*ABC*E1"
	}
	_, err = EncodePullStatusByID(emobility.PullStatusByIDRequest{ProviderID: testProvider, EVSEIDs: ids})
	assertValidationError(t, err, "EvseId")

	msg, err := EncodePullStatusByID(emobility.PullStatusByIDRequest{ProviderID: testProvider, EVSEIDs: ids[:2]})
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(msg.Payload), "<EvseId>"))
}

func TestEncode_LocaleInvariant(t *testing.T) {
	encode := func() []byte {
		msg, err := EncodeStationPush([]emobility.StationRecord{testStation("DE*ABC*E1")}, emobility.ActionInsert, testOperator, nil)
		require.NoError(t, err)
		return msg.Payload
	}

	reference := encode()

	t.Setenv("LANG", "de_DE.UTF-8")
	t.Setenv("LC_ALL", "de_DE.UTF-8")
	t.Setenv("LC_NUMERIC", "de_DE.UTF-8")

	assert.Equal(t, reference, encode())
	assert.NotContains(t, string(reference), "50,927054")
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "1234567.5", FormatDecimal(1234567.5))
	assert.Equal(t, "-0.100000", FormatCoordinate(-0.1))
	assert.Equal(t, "12.345679", FormatCoordinate(12.3456789))

	ts := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	assert.Equal(t, "2024-01-02T03:04:05.006Z", FormatTimestamp(ts))

	parsed, err := ParseTimestamp("2024-01-02T03:04:05Z")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts.Truncate(time.Second)))
}

func TestEncodeFaultAndAcknowledgement(t *testing.T) {
	msg, err := EncodeAcknowledgement(oicp.OperationAuthorizeRemoteStart, oicp.Acknowledgement{
		Result:     true,
		StatusCode: &oicp.StatusCode{Code: oicp.StatusCodeSuccess, Description: ptr("Success")},
		SessionID:  ptr("s-1"),
	})
	require.NoError(t, err)

	ack, err := DecodeAcknowledgement(msg.Payload)
	require.NoError(t, err)
	assert.True(t, ack.Result)
	assert.Equal(t, "s-1", deref(ack.SessionID))

	fault, err := EncodeFault(oicp.OperationAuthorizeRemoteStart, "soap:Server", "boom")
	require.NoError(t, err)

	_, err = Decode(fault.Payload, oicp.RootAcknowledgement)
	var pf ProtocolFault
	require.True(t, errors.As(err, &pf))
	assert.Equal(t, "soap:Server", pf.Code)
	assert.Equal(t, "boom", pf.Description)
}
