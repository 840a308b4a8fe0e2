package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/pulsecheck/internal/common"
	"github.com/go-playground/validator/v10"
)

// NewUser is the input for UserService.Create.
type NewUser struct {
	Phone        string `json:"phone" validate:"required,len=10,digits"`
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Password     string `json:"password" validate:"required"`
	TOSAgreement bool   `json:"tosAgreement" validate:"required"`
}

// UserPatch is the input for UserService.Update. Empty strings mean "leave
// unchanged"; at least one field must be set.
type UserPatch struct {
	FirstName string `json:"firstName" validate:"required_without_all=LastName Password"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// NewCheck is the input for CheckService.Create.
type NewCheck struct {
	Protocol       string `json:"protocol" validate:"required,oneof=http https"`
	URL            string `json:"url" validate:"required"`
	Method         string `json:"method" validate:"required,oneof=get post put delete"`
	SuccessCodes   []int  `json:"successCodes" validate:"required,min=1"`
	TimeoutSeconds int    `json:"timeoutSeconds" validate:"min=1,max=5"`
}

// CheckPatch is the input for CheckService.Update. Empty strings, an empty
// code list and a nil timeout mean "leave unchanged". Supplied values must be
// valid.
type CheckPatch struct {
	Protocol       string `json:"protocol" validate:"omitempty,oneof=http https"`
	URL            string `json:"url"`
	Method         string `json:"method" validate:"omitempty,oneof=get post put delete"`
	SuccessCodes   []int  `json:"successCodes"`
	TimeoutSeconds *int   `json:"timeoutSeconds" validate:"omitnil,min=1,max=5"`
}

func (p *CheckPatch) empty() bool {
	return p.Protocol == "" && p.URL == "" && p.Method == "" &&
		len(p.SuccessCodes) == 0 && p.TimeoutSeconds == nil
}

const (
	phoneRule = "required,len=10,digits"
	idRule    = "required,len=20,alphanum"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	return v
}

// validateStruct runs struct validation and folds failures into a single
// ErrorValidation naming the offending fields.
func validateStruct(s any, msg string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s", common.ErrorValidation, msg)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: %s (%s)", common.ErrorValidation, msg, strings.Join(fields, ", "))
}

func validatePhone(phone string) error {
	if err := validate.Var(phone, phoneRule); err != nil {
		return fmt.Errorf("%w: missing required field (phone)", common.ErrorValidation)
	}
	return nil
}

func validateID(id string) error {
	if err := validate.Var(id, idRule); err != nil {
		return fmt.Errorf("%w: missing required field (id)", common.ErrorValidation)
	}
	return nil
}

// dedupeCodes drops repeated codes keeping first-seen order.
func dedupeCodes(codes []int) []int {
	seen := make(map[int]struct{}, len(codes))
	out := make([]int, 0, len(codes))
	for _, c := range codes {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func (u *NewUser) normalize() {
	u.Phone = strings.TrimSpace(u.Phone)
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	u.Password = strings.TrimSpace(u.Password)
}

func (p *UserPatch) normalize() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Password = strings.TrimSpace(p.Password)
}

func (c *NewCheck) normalize() {
	c.Protocol = strings.TrimSpace(c.Protocol)
	c.URL = strings.TrimSpace(c.URL)
	c.Method = strings.TrimSpace(c.Method)
}

func (p *CheckPatch) normalize() {
	p.Protocol = strings.TrimSpace(p.Protocol)
	p.URL = strings.TrimSpace(p.URL)
	p.Method = strings.TrimSpace(p.Method)
}
