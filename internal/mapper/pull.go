package mapper

import (
	"github.com/charging-platform/oicp-roaming/internal/codec"
	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/domain/oicp"
)

func pullStatus(o emobility.Outcome) emobility.PullStatus {
	switch o {
	case emobility.OutcomeCompleted:
		return emobility.PullSuccess
	case emobility.OutcomeRejected:
		return emobility.PullRejected
	case emobility.OutcomeInvalidRequest:
		return emobility.PullInvalidRequest
	case emobility.OutcomeTimeout:
		return emobility.PullTimeout
	case emobility.OutcomeCancelled, emobility.OutcomeCommunicationError:
		return emobility.PullCommunicationError
	}
	return emobility.PullError
}

// PullStatus 全量/区域状态响应转换为拉取结果
func PullStatus(resp *oicp.EvseStatus, err error) *emobility.PullStatusResult {
	var sc *oicp.StatusCode
	if resp != nil {
		sc = resp.StatusCode
	}
	res := &emobility.PullStatusResult{Exchange: exchange(sc, err)}
	res.Status = pullStatus(res.Outcome)
	if err == nil && resp != nil {
		res.Operators = codec.StatusesFromOperators(resp.OperatorEvseStatus)
	}
	return res
}

// PullStatusByID 按编号拉取的状态响应转换为拉取结果，记录挂在空运营商下
func PullStatusByID(resp *oicp.EvseStatusByID, err error) *emobility.PullStatusResult {
	var sc *oicp.StatusCode
	if resp != nil {
		sc = resp.StatusCode
	}
	res := &emobility.PullStatusResult{Exchange: exchange(sc, err)}
	res.Status = pullStatus(res.Outcome)
	if err == nil && resp != nil && len(resp.EvseStatusRecord) > 0 {
		res.Operators = []emobility.OperatorStatuses{{Records: codec.StatusesFromRecords(resp.EvseStatusRecord)}}
	}
	return res
}

// PullData 站点数据响应转换为拉取结果，记录无法转换时按响应格式错误处理
func PullData(resp *oicp.EvseData, err error) *emobility.PullDataResult {
	var operators []emobility.OperatorStations
	if err == nil && resp != nil {
		operators, err = codec.StationsFromOperators(resp.OperatorEvseData)
		if err != nil {
			err = codec.MalformedResponseError{Expected: oicp.RootEvseData.Local, Message: "cannot convert EVSE data", Cause: err}
			operators = nil
		}
	}

	var sc *oicp.StatusCode
	if resp != nil {
		sc = resp.StatusCode
	}
	res := &emobility.PullDataResult{Exchange: exchange(sc, err), Operators: operators}
	res.Status = pullStatus(res.Outcome)
	return res
}

// PullAuthenticationData 授权白名单响应转换为拉取结果
func PullAuthenticationData(resp *oicp.AuthenticationData, err error) *emobility.PullAuthenticationDataResult {
	var sc *oicp.StatusCode
	if resp != nil {
		sc = resp.StatusCode
	}
	res := &emobility.PullAuthenticationDataResult{Exchange: exchange(sc, err)}
	res.Status = pullStatus(res.Outcome)
	if err == nil && resp != nil {
		res.Providers = codec.ProvidersFromAuthenticationData(resp.ProviderAuthenticationData)
	}
	return res
}
