package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	operatorIDPattern = regexp.MustCompile(`^(([A-Za-z]{2}\*?[A-Za-z0-9]{3})|(\+?[0-9]{1,3}\*[0-9]{3}))$`)
	providerIDPattern = regexp.MustCompile(`^[A-Za-z]{2}[\*\-]?[A-Za-z0-9]{3}$`)
	evseIDPattern     = regexp.MustCompile(`^(([A-Za-z]{2}\*?[A-Za-z0-9]{3}\*?E[A-Za-z0-9\*]{1,30})|(\+?[0-9]{1,3}\*[0-9]{3}\*[0-9\*]{1,32}))$`)
	evcoIDPattern     = regexp.MustCompile(`^[A-Za-z]{2}[\*\-]?[A-Za-z0-9]{3}[\*\-]?[A-Za-z0-9]{9}[\*\-]?[A-Za-z0-9]?$`)
)

// Validator 漫游数据验证器
type Validator struct {
	validate *validator.Validate
}

// ValidationError 验证错误
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// Error 实现error接口
func (e ValidationError) Error() string {
	return e.Message
}

// ValidationErrors 验证错误集合
type ValidationErrors []ValidationError

// Error 实现error接口
func (e ValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// NewValidator 创建新的验证器
func NewValidator() *Validator {
	validate := validator.New()

	// 注册自定义验证规则
	registerCustomValidations(validate)

	return &Validator{
		validate: validate,
	}
}

// ValidateStruct 验证结构体
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validatorErrors validator.ValidationErrors
	if !errors.As(err, &validatorErrors) {
		return err
	}

	validationErrors := make(ValidationErrors, 0, len(validatorErrors))
	for _, fe := range validatorErrors {
		validationErrors = append(validationErrors, ValidationError{
			Field:   fe.Namespace(),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
			Message: getErrorMessage(fe),
		})
	}
	return validationErrors
}

// ValidateOperatorID 验证运营商编号
func (v *Validator) ValidateOperatorID(id string) error {
	return matchID("OperatorID", "operator_id", id, operatorIDPattern)
}

// ValidateProviderID 验证服务商编号
func (v *Validator) ValidateProviderID(id string) error {
	return matchID("ProviderID", "provider_id", id, providerIDPattern)
}

// ValidateEVSEID 验证充电点编号
func (v *Validator) ValidateEVSEID(id string) error {
	return matchID("EvseID", "evse_id", id, evseIDPattern)
}

// ValidateEVCOID 验证合约编号
func (v *Validator) ValidateEVCOID(id string) error {
	return matchID("EVCOID", "evco_id", id, evcoIDPattern)
}

func matchID(field, tag, value string, pattern *regexp.Regexp) error {
	if value == "" {
		return ValidationError{
			Field:   field,
			Tag:     "required",
			Message: fmt.Sprintf("Field '%s' is required", field),
		}
	}
	if !pattern.MatchString(value) {
		return ValidationError{
			Field:   field,
			Tag:     tag,
			Value:   value,
			Message: fmt.Sprintf("Field '%s' has an invalid format: %q", field, value),
		}
	}
	return nil
}

// registerCustomValidations 注册自定义验证规则
func registerCustomValidations(validate *validator.Validate) {
	validate.RegisterValidation("operator_id", patternValidation(operatorIDPattern))
	validate.RegisterValidation("provider_id", patternValidation(providerIDPattern))
	validate.RegisterValidation("evse_id", patternValidation(evseIDPattern))
	validate.RegisterValidation("evco_id", patternValidation(evcoIDPattern))
}

// patternValidation 空值交给 required 处理
func patternValidation(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return pattern.MatchString(value)
	}
}

// getErrorMessage 获取友好的错误消息
func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field '%s' is required", fe.Field())
	case "gte":
		return fmt.Sprintf("Field '%s' must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("Field '%s' must not exceed %s", fe.Field(), fe.Param())
	case "operator_id":
		return fmt.Sprintf("Field '%s' must be a valid operator id (e.g. DE*ABC)", fe.Field())
	case "provider_id":
		return fmt.Sprintf("Field '%s' must be a valid provider id (e.g. DE-XYZ)", fe.Field())
	case "evse_id":
		return fmt.Sprintf("Field '%s' must be a valid EVSE id (e.g. DE*ABC*E123456)", fe.Field())
	case "evco_id":
		return fmt.Sprintf("Field '%s' must be a valid contract id", fe.Field())
	default:
		return fmt.Sprintf("Field '%s' failed validation for tag '%s'", fe.Field(), fe.Tag())
	}
}
