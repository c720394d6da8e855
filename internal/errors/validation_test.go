package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/versus-api/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestValidationError() {
	err := errors.NewValidationBuilder().
		Field("port", "must be between 1 and 65535").
		Field("model", "is required").
		Build()

	s.Require().Error(err)
	s.Assert().Equal(errors.CodeInvalidArgument, errors.GetCode(err))
	s.Assert().Equal("validation failed: model: is required; port: must be between 1 and 65535", errors.GetMessage(err))
	s.Assert().NotNil(errors.GetMeta(err)["validation_errors"])
}

func (s *ValidationTestSuite) TestValidationBuilder() {
	vb := errors.NewValidationBuilder()
	vb.Field("model", "is required").
		Fieldf("port", "must be between %d and %d", 1, 65535).
		RequiredField("api-key")

	err := vb.Build()
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Contains(err.Error(), "api-key: is required")
}

func (s *ValidationTestSuite) TestValidationBuilderNoErrors() {
	s.Assert().NoError(errors.NewValidationBuilder().Build())
}

func (s *ValidationTestSuite) TestValidateRequired() {
	testCases := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{"valid value", "gemini-2.5-flash", false},
		{"empty string", "", true},
		{"whitespace only", "   ", true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			vb := errors.NewValidationBuilder()
			errors.ValidateRequired("model", tc.value, vb)
			if tc.shouldErr {
				s.Assert().Error(vb.Build())
			} else {
				s.Assert().NoError(vb.Build())
			}
		})
	}
}

func (s *ValidationTestSuite) TestValidateRange() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("port", 8080, 1, 65535, vb)
	s.Assert().NoError(vb.Build())

	vb = errors.NewValidationBuilder()
	errors.ValidateRange("port", 0, 1, 65535, vb)
	s.Assert().Error(vb.Build())
}

func (s *ValidationTestSuite) TestValidateEnum() {
	allowed := []string{"text", "json"}

	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("log-format", "json", allowed, vb)
	s.Assert().NoError(vb.Build())

	vb = errors.NewValidationBuilder()
	errors.ValidateEnum("log-format", "xml", allowed, vb)
	err := vb.Build()
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "must be one of: text, json")
}
