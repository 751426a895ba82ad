package codec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"github.com/charging-platform/oicp-roaming/internal/domain/oicp"
)

const (
	localEnvelope = "Envelope"
	localBody     = "Body"
	localFault    = "Fault"
)

// ParsedEnvelope 已定位到期望根元素的响应
type ParsedEnvelope struct {
	Root xml.Name
	raw  []byte
}

// Into 将根元素解码到 v
func (p *ParsedEnvelope) Into(v interface{}) error {
	dec := xml.NewDecoder(bytes.NewReader(p.raw))
	start, err := seekPayload(dec)
	if err != nil || start == nil {
		return MalformedResponseError{Expected: p.Root.Local, Message: "payload not found", Cause: err}
	}
	if err := dec.DecodeElement(v, start); err != nil {
		return MalformedResponseError{Expected: p.Root.Local, Message: "cannot decode payload", Cause: err}
	}
	return nil
}

// Decode 校验 XML 语法并定位期望的根元素。
// 根元素按本地名匹配，不校验命名空间；找不到时若存在 SOAP Fault 或失败的通用应答则返回 ProtocolFault，
// 成功的通用应答按格式错误处理。
func Decode(raw []byte, expectedRoot xml.Name) (*ParsedEnvelope, error) {
	if err := wellFormed(raw); err != nil {
		return nil, MalformedResponseError{Expected: expectedRoot.Local, Message: "invalid XML", Cause: err}
	}

	dec := xml.NewDecoder(bytes.NewReader(raw))
	start, err := seekPayload(dec)
	if err != nil {
		return nil, MalformedResponseError{Expected: expectedRoot.Local, Message: "invalid SOAP envelope", Cause: err}
	}
	if start == nil {
		return nil, MalformedResponseError{Expected: expectedRoot.Local, Message: "empty SOAP body"}
	}

	switch start.Name.Local {
	case expectedRoot.Local:
		return &ParsedEnvelope{Root: start.Name, raw: raw}, nil
	case localFault:
		var f oicp.Fault
		if err := dec.DecodeElement(&f, start); err != nil {
			return nil, MalformedResponseError{Expected: expectedRoot.Local, Message: "cannot decode fault", Cause: err}
		}
		return nil, faultFromSOAP(&f)
	case oicp.RootAcknowledgement.Local:
		var ack oicp.Acknowledgement
		if err := dec.DecodeElement(&ack, start); err != nil {
			return nil, MalformedResponseError{Expected: expectedRoot.Local, Message: "cannot decode acknowledgement", Cause: err}
		}
		// 成功应答不能代替期望的业务响应
		if ack.Result && (ack.StatusCode == nil || oicp.IsSuccessCode(ack.StatusCode.Code)) {
			return nil, MalformedResponseError{Expected: expectedRoot.Local, Message: "successful acknowledgement instead of " + expectedRoot.Local}
		}
		return nil, faultFromAcknowledgement(&ack)
	}
	return nil, MalformedResponseError{Expected: expectedRoot.Local, Message: "unexpected root element " + start.Name.Local}
}

// wellFormed 完整扫描一遍，确保没有语法错误且至少有一个元素
func wellFormed(raw []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	elements := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if _, ok := tok.(xml.StartElement); ok {
			elements++
		}
	}
	if elements == 0 {
		return errors.New("document has no elements")
	}
	return nil
}

// seekPayload 定位 Body 下的第一个元素；文档根不是 Envelope 时把根本身当作负载。
// Body 为空时返回 nil, nil。
func seekPayload(dec *xml.Decoder) (*xml.StartElement, error) {
	root, err := nextStart(dec)
	if err != nil {
		return nil, err
	}
	if root.Name.Local != localEnvelope {
		return root, nil
	}

	for {
		child, err := nextChild(dec)
		if err != nil || child == nil {
			return nil, errors.New("SOAP envelope has no body")
		}
		if child.Name.Local == localBody {
			return nextChild(dec)
		}
		if err := dec.Skip(); err != nil {
			return nil, err
		}
	}
}

func nextStart(dec *xml.Decoder) (*xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return &se, nil
		}
	}
}

// nextChild 返回当前元素的下一个子元素，遇到当前元素结束时返回 nil
func nextChild(dec *xml.Decoder) (*xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return &t, nil
		case xml.EndElement:
			return nil, nil
		}
	}
}

func decodeInto[T any](raw []byte, root xml.Name) (*T, error) {
	env, err := Decode(raw, root)
	if err != nil {
		return nil, err
	}
	v := new(T)
	if err := env.Into(v); err != nil {
		return nil, err
	}
	return v, nil
}

// checkStatus 拉取类响应携带非成功状态码时视为协议故障
func checkStatus(sc *oicp.StatusCode) error {
	if sc == nil || oicp.IsSuccessCode(sc.Code) {
		return nil
	}
	return ProtocolFault{Code: sc.Code, Description: deref(sc.Description), AdditionalInfo: deref(sc.AdditionalInfo)}
}

// DecodeAcknowledgement 解码通用应答。Result=false 或状态码非成功时同时返回应答和 ProtocolFault；
// Result=true 且缺少状态码时按成功处理。
func DecodeAcknowledgement(raw []byte) (*oicp.Acknowledgement, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	if err := wellFormed(raw); err != nil {
		return nil, MalformedResponseError{Expected: oicp.RootAcknowledgement.Local, Message: "invalid XML", Cause: err}
	}
	start, err := seekPayload(dec)
	if err != nil || start == nil {
		return nil, MalformedResponseError{Expected: oicp.RootAcknowledgement.Local, Message: "empty SOAP body", Cause: err}
	}
	switch start.Name.Local {
	case oicp.RootAcknowledgement.Local:
	case localFault:
		var f oicp.Fault
		if err := dec.DecodeElement(&f, start); err != nil {
			return nil, MalformedResponseError{Expected: oicp.RootAcknowledgement.Local, Message: "cannot decode fault", Cause: err}
		}
		return nil, faultFromSOAP(&f)
	default:
		return nil, MalformedResponseError{Expected: oicp.RootAcknowledgement.Local, Message: "unexpected root element " + start.Name.Local}
	}

	var ack oicp.Acknowledgement
	if err := dec.DecodeElement(&ack, start); err != nil {
		return nil, MalformedResponseError{Expected: oicp.RootAcknowledgement.Local, Message: "cannot decode acknowledgement", Cause: err}
	}
	if !ack.Result || (ack.StatusCode != nil && !oicp.IsSuccessCode(ack.StatusCode.Code)) {
		return &ack, faultFromAcknowledgement(&ack)
	}
	return &ack, nil
}

// DecodeAuthorizationStart 解码启动授权应答，授权结论交给上层判断
func DecodeAuthorizationStart(raw []byte) (*oicp.AuthorizationStart, error) {
	return decodeInto[oicp.AuthorizationStart](raw, oicp.RootAuthorizationStart)
}

// DecodeAuthorizationStop 解码停止授权应答
func DecodeAuthorizationStop(raw []byte) (*oicp.AuthorizationStop, error) {
	return decodeInto[oicp.AuthorizationStop](raw, oicp.RootAuthorizationStop)
}

// DecodeEvseStatus 解码全量/区域状态响应
func DecodeEvseStatus(raw []byte) (*oicp.EvseStatus, error) {
	resp, err := decodeInto[oicp.EvseStatus](raw, oicp.RootEvseStatus)
	if err != nil {
		return nil, err
	}
	return resp, checkStatus(resp.StatusCode)
}

// DecodeEvseStatusByID 解码按编号拉取的状态响应
func DecodeEvseStatusByID(raw []byte) (*oicp.EvseStatusByID, error) {
	resp, err := decodeInto[oicp.EvseStatusByID](raw, oicp.RootEvseStatusByID)
	if err != nil {
		return nil, err
	}
	return resp, checkStatus(resp.StatusCode)
}

// DecodeEvseData 解码站点数据响应
func DecodeEvseData(raw []byte) (*oicp.EvseData, error) {
	resp, err := decodeInto[oicp.EvseData](raw, oicp.RootEvseData)
	if err != nil {
		return nil, err
	}
	return resp, checkStatus(resp.StatusCode)
}

// DecodeAuthenticationData 解码授权白名单响应
func DecodeAuthenticationData(raw []byte) (*oicp.AuthenticationData, error) {
	resp, err := decodeInto[oicp.AuthenticationData](raw, oicp.RootAuthenticationData)
	if err != nil {
		return nil, err
	}
	return resp, checkStatus(resp.StatusCode)
}
