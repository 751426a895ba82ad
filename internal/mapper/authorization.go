package mapper

import (
	"github.com/charging-platform/oicp-roaming/internal/codec"
	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/domain/oicp"
)

// authorization 只有传输成功且对端明确给出 Authorized 时才算授权成功。
// 传输成功但缺少状态码块时返回 AuthorizationError，其余情况都是 NotAuthorized。
func authorization(status string, sc *oicp.StatusCode, sessionID, partnerSessionID, providerID *string, err error) *emobility.AuthorizationResult {
	res := &emobility.AuthorizationResult{Exchange: exchange(sc, err)}

	if err != nil {
		res.Status = emobility.NotAuthorized
		return res
	}

	res.SessionID = sessionID
	res.PartnerSessionID = partnerSessionID
	if providerID != nil {
		p := emobility.ProviderID(*providerID)
		res.ProviderID = &p
	}

	switch {
	case sc == nil:
		res.Status = emobility.AuthorizationError
		res.Description = MissingStatusCode
	case status == oicp.AuthorizationStatusAuthorized:
		res.Status = emobility.Authorized
	default:
		res.Status = emobility.NotAuthorized
		// 附加信息保留在 StatusCode.AdditionalInfo
		res.Description = res.StatusCode.Description
	}
	return res
}

// AuthorizeStart 启动授权应答转换为授权结果，永不返回 nil
func AuthorizeStart(resp *oicp.AuthorizationStart, err error) *emobility.AuthorizationResult {
	if resp == nil {
		return authorization("", nil, nil, nil, nil, orMissing(err))
	}
	res := authorization(resp.AuthorizationStatus, resp.StatusCode, resp.SessionID, resp.PartnerSessionID, resp.ProviderID, err)
	if res.Status == emobility.Authorized && len(resp.AuthorizationStopIdentifications) > 0 {
		res.StopIdentifications = codec.IdentificationsFromWire(resp.AuthorizationStopIdentifications)
	}
	return res
}

// AuthorizeStop 停止授权应答转换为授权结果，永不返回 nil
func AuthorizeStop(resp *oicp.AuthorizationStop, err error) *emobility.AuthorizationResult {
	if resp == nil {
		return authorization("", nil, nil, nil, nil, orMissing(err))
	}
	return authorization(resp.AuthorizationStatus, resp.StatusCode, resp.SessionID, resp.PartnerSessionID, resp.ProviderID, err)
}

func orMissing(err error) error {
	if err != nil {
		return err
	}
	return codec.MalformedResponseError{Expected: "authorization response", Message: "empty response"}
}
