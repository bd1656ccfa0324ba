package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func oneOf(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, allowed := range values {
			if v == allowed {
				return true
			}
		}
		return false
	}
}

func validDistrict(fl validator.FieldLevel) bool {
	return IsDistrict(fl.Field().String())
}

func validStatus(fl validator.FieldLevel) bool {
	return ApplicationStatus(fl.Field().String()).Valid()
}

// constituencyInDistrict rejects a constituency outside the chosen district
func constituencyInDistrict(sl validator.StructLevel) {
	req := sl.Current().Interface().(SubmitApplicationRequest)
	if IsDistrict(req.RevenueDistrict) && !InDistrict(req.RevenueDistrict, req.AssemblyConstituency) {
		sl.ReportError(req.AssemblyConstituency, "assembly_constituency", "AssemblyConstituency", "constituency", "")
	}
}

// jsonName reports fields by their JSON key
func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// RegisterValidators installs the membership enum validators on v
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonName)

	validators := map[string]validator.Func{
		"gender":     oneOf(Genders),
		"education":  oneOf(Educations),
		"occupation": oneOf(Occupations),
		"district":   validDistrict,
		"app_status": validStatus,
	}
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}

	v.RegisterStructValidation(constituencyInDistrict, SubmitApplicationRequest{})
	return nil
}

// NewValidator returns a validator reading `binding` tags, the same tags
// gin checks, with the membership validators registered.
func NewValidator() (*validator.Validate, error) {
	v := validator.New()
	v.SetTagName("binding")
	if err := RegisterValidators(v); err != nil {
		return nil, err
	}
	return v, nil
}
