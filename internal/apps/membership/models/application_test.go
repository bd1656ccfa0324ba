package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeOn(t *testing.T) {
	today := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		dob  Date
		want int
	}{
		{"eighteenth birthday today", NewDate(2008, 10, 19), 18},
		{"eighteenth birthday tomorrow", NewDate(2008, 10, 20), 17},
		{"eighteenth birthday next month", NewDate(2008, 11, 1), 17},
		{"eighteenth birthday last month", NewDate(2008, 9, 30), 18},
		{"leap day birth", NewDate(2000, 2, 29), 26},
		{"born today", NewDate(2026, 10, 19), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeOn(tt.dob, today))
		})
	}
}

func TestDateJSONAndSQL(t *testing.T) {
	d := NewDate(1990, 1, 2)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1990-01-02"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, d.Equal(back.Time))

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "1990-01-02", v)

	var scanned Date
	require.NoError(t, scanned.Scan(time.Date(1990, 1, 2, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, "1990-01-02", scanned.String())

	assert.Error(t, scanned.Scan(42))
	assert.Error(t, json.Unmarshal([]byte(`"02/01/1990"`), &back))
}

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, ApplicationStatus("archived").Valid())
	assert.False(t, ApplicationStatus("").Valid())
}

func TestDistricts(t *testing.T) {
	districts := Districts()
	assert.Len(t, districts, 38)
	assert.Equal(t, "Ariyalur", districts[0])
	assert.True(t, InDistrict("Chennai", "Mylapore"))
	assert.False(t, InDistrict("Chennai", "Hosur"))
	assert.False(t, IsDistrict("Bengaluru"))
}

func validRequest() SubmitApplicationRequest {
	yes, no := true, false
	return SubmitApplicationRequest{
		PhoneNumber:            "9876543210",
		Name:                   "Kavya Raman",
		Gender:                 GenderFemale,
		DateOfBirth:            "1995-04-12",
		RevenueDistrict:        "Chennai",
		AssemblyConstituency:   "Mylapore",
		Education:              EducationEngineering,
		Occupation:             OccupationPrivate,
		IsAlreadyMember:        &no,
		WantToVolunteer:        &yes,
		WantToJoinAndVolunteer: &no,
		Motivation:             "Community service",
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	out := map[string]string{}
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

func TestValidatorAcceptsValidRequest(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)
	assert.NoError(t, v.Struct(validRequest()))
}

func TestValidatorRejectsBadEnums(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	req := validRequest()
	req.Gender = "male"
	req.Education = "Physics"
	req.Occupation = "Astronaut"
	req.RevenueDistrict = "Atlantis"
	email := "not-an-email"
	req.Email = &email
	req.WantToVolunteer = nil
	req.DateOfBirth = "12/04/1995"

	fields := fieldErrors(t, v.Struct(req))
	assert.Equal(t, "gender", fields["gender"])
	assert.Equal(t, "education", fields["education"])
	assert.Equal(t, "occupation", fields["occupation"])
	assert.Equal(t, "district", fields["revenue_district"])
	assert.Equal(t, "email", fields["email"])
	assert.Equal(t, "required", fields["want_to_volunteer"])
	assert.Equal(t, "datetime", fields["date_of_birth"])
}

func TestValidatorChecksConstituencyBelongsToDistrict(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	req := validRequest()
	req.AssemblyConstituency = "Hosur"

	fields := fieldErrors(t, v.Struct(req))
	assert.Equal(t, "constituency", fields["assembly_constituency"])
}

func TestValidatorStatus(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	assert.NoError(t, v.Struct(UpdateStatusRequest{Status: StatusUnderReview}))
	fields := fieldErrors(t, v.Struct(UpdateStatusRequest{Status: "archived"}))
	assert.Equal(t, "app_status", fields["status"])
}

func TestSubmitApplicationRequestDecodeTrims(t *testing.T) {
	body := `{
		"phone_number": " 9876543210 ",
		"name": " Kavya Raman ",
		"email": " kavya@example.com ",
		"address": "  ",
		"gender": "Female",
		"date_of_birth": "1995-04-12",
		"revenue_district": "Chennai",
		"assembly_constituency": " Mylapore",
		"education": "Engineering",
		"occupation": "Private",
		"is_already_member": false,
		"want_to_volunteer": true,
		"want_to_join_and_volunteer": false,
		"motivation": " Community service "
	}`

	var req SubmitApplicationRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, "9876543210", req.PhoneNumber)
	assert.Equal(t, "Kavya Raman", req.Name)
	require.NotNil(t, req.Email)
	assert.Equal(t, "kavya@example.com", *req.Email)
	assert.Nil(t, req.Address)
	assert.Equal(t, "Mylapore", req.AssemblyConstituency)
	assert.Equal(t, "Community service", req.Motivation)
	require.NotNil(t, req.WantToVolunteer)
	assert.True(t, *req.WantToVolunteer)

	v, err := NewValidator()
	require.NoError(t, err)
	assert.NoError(t, v.Struct(req))
}
