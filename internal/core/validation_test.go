// AngelaMos | 2026
// validation_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type tierInput struct {
	Title     string `json:"title" validate:"required"`
	Revisions *int   `json:"revisions" validate:"required,gte=-1"`
}

type offerInput struct {
	Title   string      `json:"title" validate:"required,max=10"`
	Kind    string      `json:"kind" validate:"oneof=basic premium"`
	Email   string      `json:"email,omitempty" validate:"omitempty,email"`
	Details []tierInput `json:"details" validate:"required,dive"`
}

func TestValidateStructUsesJSONPaths(t *testing.T) {
	v := NewValidator()
	minus := -2

	fields := ValidateStruct(v, offerInput{
		Title: "far too long a title",
		Kind:  "gold",
		Email: "nope",
		Details: []tierInput{
			{Title: "ok", Revisions: &minus},
			{},
		},
	})

	assert.Equal(t, []string{"Ensure this field has no more than 10 characters."}, fields["title"])
	assert.Equal(t, []string{`"gold" is not a valid choice.`}, fields["kind"])
	assert.Equal(t, []string{"Enter a valid email address."}, fields["email"])
	assert.Equal(t, []string{"Ensure this value is greater than or equal to -1."}, fields["details[0].revisions"])
	assert.Equal(t, []string{"This field is required."}, fields["details[1].title"])
	assert.Equal(t, []string{"This field is required."}, fields["details[1].revisions"])
}

func TestValidateStructValid(t *testing.T) {
	zero := 0
	fields := ValidateStruct(NewValidator(), offerInput{
		Title:   "Logo",
		Kind:    "basic",
		Details: []tierInput{{Title: "t", Revisions: &zero}},
	})
	assert.True(t, fields.Empty())
}
