package validation_test

import (
	"errors"
	"testing"

	"github.com/dom/libriverse/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Username string `json:"username" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,min=6,max=60,email,emailtld"`
	Password string `json:"password" validate:"required,specialchar"`
}

type reviewForm struct {
	BookID string `json:"bookId" validate:"required,uuid"`
	Rating int    `json:"rating" validate:"gte=1,lte=5"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantMsg   string
	}{
		{
			name:  "valid signup",
			input: signupForm{Username: "ada", Email: "ada@example.com", Password: "hunter2!"},
		},
		{
			name:  "net domain accepted",
			input: signupForm{Username: "ada", Email: "ada@example.net", Password: "hunter2!"},
		},
		{
			name:      "missing username",
			input:     signupForm{Email: "ada@example.com", Password: "hunter2!"},
			wantField: "username",
			wantMsg:   "username is required",
		},
		{
			name:      "username too short",
			input:     signupForm{Username: "a", Email: "ada@example.com", Password: "hunter2!"},
			wantField: "username",
			wantMsg:   "username must be at least 2 characters",
		},
		{
			name:      "malformed email",
			input:     signupForm{Username: "ada", Email: "not-an-email", Password: "hunter2!"},
			wantField: "email",
			wantMsg:   "email must be a valid email address",
		},
		{
			name:      "disallowed tld",
			input:     signupForm{Username: "ada", Email: "ada@example.org", Password: "hunter2!"},
			wantField: "email",
			wantMsg:   "email must end in .com or .net",
		},
		{
			name:      "email too long",
			input:     signupForm{Username: "ada", Email: "a123456789012345678901234567890123456789012345678901234567@x.com", Password: "hunter2!"},
			wantField: "email",
			wantMsg:   "email must be at most 60 characters",
		},
		{
			name:      "password without special character",
			input:     signupForm{Username: "ada", Email: "ada@example.com", Password: "hunter22"},
			wantField: "password",
			wantMsg:   "password must contain at least one special character",
		},
		{
			name:      "rating out of range",
			input:     reviewForm{BookID: "0b8e3c1c-5d0a-4a43-9d3e-3f1f4f2b8d11", Rating: 6},
			wantField: "rating",
			wantMsg:   "rating must be less than or equal to 5",
		},
		{
			name:      "book id not a uuid",
			input:     reviewForm{BookID: "abc", Rating: 3},
			wantField: "bookId",
			wantMsg:   "bookId must be a valid id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Struct(tt.input)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			var verr *validation.Error
			require.True(t, errors.As(err, &verr), "expected *validation.Error, got %T", err)
			assert.Equal(t, tt.wantMsg, verr.Error())
			assert.Contains(t, verr.FieldMessages(), tt.wantField)
		})
	}
}
