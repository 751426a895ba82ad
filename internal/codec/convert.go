package codec

import (
	"fmt"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/domain/oicp"
)

// identificationToWire 转换授权令牌，类型缺失或标识为空时报错
func identificationToWire(id emobility.Identification) (oicp.Identification, error) {
	switch id.Kind {
	case emobility.IdentificationRFID:
		if id.UID == "" {
			return oicp.Identification{}, fmt.Errorf("RFID identification without UID")
		}
		return oicp.Identification{RFIDMifareFamily: &oicp.RFIDMifareFamilyIdentification{UID: id.UID}}, nil
	case emobility.IdentificationQRCode:
		if id.EVCOID == "" {
			return oicp.Identification{}, fmt.Errorf("QR code identification without EVCOID")
		}
		return oicp.Identification{QRCode: &oicp.QRCodeIdentification{EVCOID: id.EVCOID, PIN: id.PIN}}, nil
	case emobility.IdentificationPlugAndCharge:
		if id.EVCOID == "" {
			return oicp.Identification{}, fmt.Errorf("plug and charge identification without EVCOID")
		}
		return oicp.Identification{PlugAndCharge: &oicp.EVCOIdentification{EVCOID: id.EVCOID}}, nil
	case emobility.IdentificationRemote:
		if id.EVCOID == "" {
			return oicp.Identification{}, fmt.Errorf("remote identification without EVCOID")
		}
		return oicp.Identification{Remote: &oicp.EVCOIdentification{EVCOID: id.EVCOID}}, nil
	}
	return oicp.Identification{}, fmt.Errorf("unknown identification kind %d", id.Kind)
}

func identificationFromWire(id oicp.Identification) (emobility.Identification, error) {
	switch {
	case id.RFIDMifareFamily != nil:
		return emobility.Identification{Kind: emobility.IdentificationRFID, UID: id.RFIDMifareFamily.UID}, nil
	case id.QRCode != nil:
		return emobility.Identification{Kind: emobility.IdentificationQRCode, EVCOID: id.QRCode.EVCOID, PIN: id.QRCode.PIN}, nil
	case id.PlugAndCharge != nil:
		return emobility.Identification{Kind: emobility.IdentificationPlugAndCharge, EVCOID: id.PlugAndCharge.EVCOID}, nil
	case id.Remote != nil:
		return emobility.Identification{Kind: emobility.IdentificationRemote, EVCOID: id.Remote.EVCOID}, nil
	}
	return emobility.Identification{}, fmt.Errorf("identification carries no known variant")
}

func stationToWire(r emobility.StationRecord) oicp.EvseDataRecord {
	rec := oicp.EvseDataRecord{
		EvseID:              string(r.EVSEID),
		ChargingStationID:   optional(r.ChargingStationID),
		ChargingStationName: optional(r.ChargingStationName),
		Accessibility:       optional(r.Accessibility),
		HotlinePhoneNum:     optional(r.HotlinePhoneNumber),
		IsOpen24Hours:       r.IsOpen24Hours,
		IsHubjectCompatible: r.IsHubjectCompatible,
	}
	if r.Plugs != nil {
		rec.Plugs = &oicp.Plugs{Plug: r.Plugs}
	}
	if r.ChargingFacilities != nil {
		rec.ChargingFacilities = &oicp.ChargingFacilities{ChargingFacility: r.ChargingFacilities}
	}
	if r.AuthenticationModes != nil {
		rec.AuthenticationModes = &oicp.AuthenticationModes{AuthenticationMode: r.AuthenticationModes}
	}
	if r.PaymentOptions != nil {
		rec.PaymentOptions = &oicp.PaymentOptions{PaymentOption: r.PaymentOptions}
	}
	if r.Address != nil {
		rec.Address = &oicp.Address{
			Country:    r.Address.Country,
			City:       r.Address.City,
			Street:     r.Address.Street,
			PostalCode: optional(r.Address.PostalCode),
			HouseNum:   optional(r.Address.HouseNumber),
		}
	}
	if r.GeoCoordinates != nil {
		rec.GeoCoordinates = geoToWire(*r.GeoCoordinates)
	}
	return rec
}

func stationFromWire(operatorID emobility.OperatorID, r oicp.EvseDataRecord) (emobility.StationRecord, error) {
	rec := emobility.StationRecord{
		EVSEID:              emobility.EVSEID(r.EvseID),
		OperatorID:          operatorID,
		ChargingStationID:   deref(r.ChargingStationID),
		ChargingStationName: deref(r.ChargingStationName),
		Accessibility:       deref(r.Accessibility),
		HotlinePhoneNumber:  deref(r.HotlinePhoneNum),
		IsOpen24Hours:       r.IsOpen24Hours,
		IsHubjectCompatible: r.IsHubjectCompatible,
	}
	if r.Plugs != nil {
		rec.Plugs = presentList(r.Plugs.Plug)
	}
	if r.ChargingFacilities != nil {
		rec.ChargingFacilities = presentList(r.ChargingFacilities.ChargingFacility)
	}
	if r.AuthenticationModes != nil {
		rec.AuthenticationModes = presentList(r.AuthenticationModes.AuthenticationMode)
	}
	if r.PaymentOptions != nil {
		rec.PaymentOptions = presentList(r.PaymentOptions.PaymentOption)
	}
	if r.Address != nil {
		rec.Address = &emobility.Address{
			Country:     r.Address.Country,
			City:        r.Address.City,
			Street:      r.Address.Street,
			PostalCode:  deref(r.Address.PostalCode),
			HouseNumber: deref(r.Address.HouseNum),
		}
	}
	if r.GeoCoordinates != nil {
		geo, err := geoFromWire(*r.GeoCoordinates)
		if err != nil {
			return rec, fmt.Errorf("evse %s: %w", r.EvseID, err)
		}
		rec.GeoCoordinates = geo
	}
	return rec, nil
}

func geoToWire(g emobility.GeoCoordinates) *oicp.GeoCoordinates {
	return &oicp.GeoCoordinates{DecimalDegree: &oicp.DecimalDegree{
		Longitude: FormatCoordinate(g.Longitude),
		Latitude:  FormatCoordinate(g.Latitude),
	}}
}

// geoFromWire 仅支持 DecimalDegree，其余格式返回 nil
func geoFromWire(g oicp.GeoCoordinates) (*emobility.GeoCoordinates, error) {
	if g.DecimalDegree == nil {
		return nil, nil
	}
	lat, err := parseDecimal(g.DecimalDegree.Latitude)
	if err != nil {
		return nil, fmt.Errorf("latitude %q: %w", g.DecimalDegree.Latitude, err)
	}
	lon, err := parseDecimal(g.DecimalDegree.Longitude)
	if err != nil {
		return nil, fmt.Errorf("longitude %q: %w", g.DecimalDegree.Longitude, err)
	}
	return &emobility.GeoCoordinates{Latitude: lat, Longitude: lon}, nil
}

func statusesFromWire(records []oicp.EvseStatusRecord) []emobility.StatusRecord {
	out := make([]emobility.StatusRecord, 0, len(records))
	for _, r := range records {
		out = append(out, emobility.StatusRecord{
			ID:     emobility.EVSEID(r.EvseID),
			Status: parseEvseStatusName(r.EvseStatus),
		})
	}
	return out
}

// StatusesFromOperators 将拉取到的状态响应转换为领域结构
func StatusesFromOperators(ops []oicp.OperatorEvseStatus) []emobility.OperatorStatuses {
	out := make([]emobility.OperatorStatuses, 0, len(ops))
	for _, op := range ops {
		out = append(out, emobility.OperatorStatuses{
			OperatorID:   emobility.OperatorID(op.OperatorID),
			OperatorName: op.OperatorName,
			Records:      statusesFromWire(op.EvseStatusRecord),
		})
	}
	return out
}

// StatusesFromRecords 按编号拉取时响应不分运营商
func StatusesFromRecords(records []oicp.EvseStatusRecord) []emobility.StatusRecord {
	return statusesFromWire(records)
}

// StationsFromOperators 将拉取到的站点数据转换为领域结构
func StationsFromOperators(ops []oicp.OperatorEvseData) ([]emobility.OperatorStations, error) {
	out := make([]emobility.OperatorStations, 0, len(ops))
	for _, op := range ops {
		group := emobility.OperatorStations{
			OperatorID:   emobility.OperatorID(op.OperatorID),
			OperatorName: op.OperatorName,
			Records:      make([]emobility.StationRecord, 0, len(op.EvseDataRecord)),
		}
		for _, r := range op.EvseDataRecord {
			rec, err := stationFromWire(group.OperatorID, r)
			if err != nil {
				return nil, err
			}
			group.Records = append(group.Records, rec)
		}
		out = append(out, group)
	}
	return out, nil
}

// ProvidersFromAuthenticationData 转换授权白名单，无法识别的标识会被跳过
func ProvidersFromAuthenticationData(data []oicp.ProviderAuthenticationData) []emobility.ProviderAuthentication {
	out := make([]emobility.ProviderAuthentication, 0, len(data))
	for _, p := range data {
		pa := emobility.ProviderAuthentication{ProviderID: emobility.ProviderID(p.ProviderID)}
		for _, rec := range p.AuthenticationDataRecord {
			id, err := identificationFromWire(rec.Identification)
			if err != nil {
				continue
			}
			pa.Identifications = append(pa.Identifications, id)
		}
		out = append(out, pa)
	}
	return out
}

// IdentificationsFromWire 转换身份标识列表，跳过无法识别的项
func IdentificationsFromWire(ids []oicp.Identification) []emobility.Identification {
	var out []emobility.Identification
	for _, w := range ids {
		id, err := identificationFromWire(w)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// presentList 元素存在时返回非 nil 切片，即使没有子项
func presentList(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
