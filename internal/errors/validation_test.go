package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-combat/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestValidationErrorIsSortedByField() {
	ve := errors.NewValidationError()
	ve.AddFieldError("Roller", "is required")
	ve.AddFieldErrorf("PlayerLevel", "must be between %d and %d", 1, 20)

	s.Assert().Equal("validation failed: PlayerLevel: must be between 1 and 20; Roller: is required", ve.Error())

	err := ve.ToError()
	s.Assert().Equal(errors.CodeInvalidArgument, err.Code)
	s.Assert().NotNil(err.Meta["validation_errors"])
}

func (s *ValidationTestSuite) TestValidationBuilder() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Narrative", "  ", vb)
	errors.ValidateRange("PlayerLevel", 0, 1, 20, vb)
	errors.ValidateEnum("Trigger", "sneeze", []string{"narrative", "manual"}, vb)

	err := vb.Build()
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Contains(err.Error(), "Narrative: is required")
	s.Assert().Contains(err.Error(), "PlayerLevel: must be between 1 and 20")
	s.Assert().Contains(err.Error(), "Trigger: must be one of: narrative, manual")
}

func (s *ValidationTestSuite) TestEmptyBuilderBuildsNil() {
	s.Assert().NoError(errors.NewValidationBuilder().Build())
}
