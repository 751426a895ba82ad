package codec

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
)

// 产品描述由 '|' 分隔的 key=value 组成：
//
//	P=<产品>  D=<n>sec / D=<n>min  R=<预约编号>
//
// 无法识别的键会被忽略；不带 '=' 的首个片段视为产品名。
const (
	descriptorSeparator = "|"
	descriptorProduct   = "P"
	descriptorDuration  = "D"
	descriptorReserve   = "R"
)

const descriptorOperation = "ParseProductDescriptor"

// ParseProductDescriptor 解析远程启动携带的产品描述；空串返回 nil
func ParseProductDescriptor(s string) (*emobility.ProductDescriptor, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	d := &emobility.ProductDescriptor{}
	for i, token := range strings.Split(s, descriptorSeparator) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		key, value, found := strings.Cut(token, "=")
		if !found {
			if i == 0 {
				d.Product = token
			}
			continue
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case descriptorProduct:
			d.Product = value
		case descriptorDuration:
			dur, err := parseDescriptorDuration(value)
			if err != nil {
				return nil, err
			}
			d.Duration = &dur
		case descriptorReserve:
			if value == "" {
				return nil, ValidationError{Operation: descriptorOperation, Field: "R", Message: "empty reservation reference"}
			}
			d.ReservationID = &value
		}
	}
	return d, nil
}

func parseDescriptorDuration(value string) (time.Duration, error) {
	lower := strings.ToLower(value)
	var unit time.Duration
	var number string
	switch {
	case strings.HasSuffix(lower, "min"):
		unit, number = time.Minute, value[:len(value)-3]
	case strings.HasSuffix(lower, "sec"):
		unit, number = time.Second, value[:len(value)-3]
	default:
		return 0, ValidationError{Operation: descriptorOperation, Field: "D", Message: "duration " + strconv.Quote(value) + " has no sec/min unit"}
	}

	n, err := strconv.ParseUint(strings.TrimSpace(number), 10, 32)
	if err != nil {
		return 0, ValidationError{Operation: descriptorOperation, Field: "D", Message: "duration " + strconv.Quote(value) + " is not numeric", Cause: err}
	}
	if n == 0 {
		return 0, ValidationError{Operation: descriptorOperation, Field: "D", Message: "duration must be positive"}
	}
	if n > uint64(math.MaxInt64/int64(unit)) {
		return 0, ValidationError{Operation: descriptorOperation, Field: "D", Message: "duration " + strconv.Quote(value) + " is out of range"}
	}
	return time.Duration(n) * unit, nil
}

// FormatProductDescriptor 按 P、D、R 的顺序输出；整分钟用 min，否则用 sec。
// 协议只有秒级精度，不足一秒的部分被截断，编码远程启动时会拒绝这类时长。
func FormatProductDescriptor(d emobility.ProductDescriptor) string {
	var tokens []string
	if d.Product != "" {
		tokens = append(tokens, descriptorProduct+"="+d.Product)
	}
	if d.Duration != nil && *d.Duration > 0 {
		dur := *d.Duration
		if dur%time.Minute == 0 {
			tokens = append(tokens, descriptorDuration+"="+strconv.FormatInt(int64(dur/time.Minute), 10)+"min")
		} else {
			tokens = append(tokens, descriptorDuration+"="+strconv.FormatInt(int64(dur/time.Second), 10)+"sec")
		}
	}
	if d.ReservationID != nil && *d.ReservationID != "" {
		tokens = append(tokens, descriptorReserve+"="+*d.ReservationID)
	}
	return strings.Join(tokens, descriptorSeparator)
}
