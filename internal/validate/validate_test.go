package validate_test

import (
	"testing"
	"vcfclean/internal/validate"
	"vcfclean/pkg/domain"

	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		record domain.Record
		want   domain.ValidationResult
	}{
		{
			name:   "valid with phone",
			record: domain.Record{FullName: ptr("Jane Doe"), Telephones: []string{"+1 555-1234"}},
			want:   domain.ValidationResult{},
		},
		{
			name:   "valid with email only",
			record: domain.Record{FullName: ptr("Jane Doe"), Emails: []string{"jane@example.com"}},
			want:   domain.ValidationResult{},
		},
		{
			name:   "valid phone with parentheses and tabs",
			record: domain.Record{FullName: ptr("Jane"), Telephones: []string{"(555)\t123-4567"}},
			want:   domain.ValidationResult{},
		},
		{
			name:   "missing name and contact, in rule order",
			record: domain.Record{},
			want:   domain.ValidationResult{"Missing full name", "Missing phone and/or email"},
		},
		{
			name:   "empty name counts as missing and skips the charset rule",
			record: domain.Record{FullName: ptr(""), Emails: []string{"x@y.z"}},
			want:   domain.ValidationResult{"Missing full name"},
		},
		{
			name:   "invalid name chars then missing contact",
			record: domain.Record{FullName: ptr("Bob<>")},
			want:   domain.ValidationResult{"Invalid characters in name: Bob<>", "Missing phone and/or email"},
		},
		{
			name:   "every forbidden char is caught",
			record: domain.Record{FullName: ptr(`a\b`), Emails: []string{"x@y.z"}},
			want:   domain.ValidationResult{`Invalid characters in name: a\b`},
		},
		{
			name: "one message per bad phone",
			record: domain.Record{
				FullName:   ptr("Jane"),
				Telephones: []string{"555-1234", "call me", "+1 (555) 000", "ext.12"},
			},
			want: domain.ValidationResult{"Invalid phone format: call me", "Invalid phone format: ext.12"},
		},
		{
			name:   "empty phone value is present but invalid",
			record: domain.Record{FullName: ptr("Jane"), Telephones: []string{""}},
			want:   domain.ValidationResult{"Invalid phone format: "},
		},
		{
			name: "all rules fail together",
			record: domain.Record{
				FullName:   ptr("a/b"),
				Telephones: []string{"abc"},
			},
			want: domain.ValidationResult{"Invalid characters in name: a/b", "Invalid phone format: abc"},
		},
	}

	v := validate.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(tt.record)
			require.Equal(t, tt.want, got)
			require.Equal(t, len(tt.want) == 0, got.Valid())
		})
	}
}

func TestValidate_ForbiddenCharacters(t *testing.T) {
	v := validate.New()
	for _, c := range []string{"<", ">", "|", ":", "*", "?", `"`, `\`, "/"} {
		got := v.Validate(domain.Record{FullName: ptr("x" + c + "y"), Emails: []string{"e@x.y"}})
		require.Equal(t, domain.ValidationResult{"Invalid characters in name: x" + c + "y"}, got, "char %q", c)
	}
}

func TestValidate_Deterministic(t *testing.T) {
	v := validate.New()
	record := domain.Record{FullName: ptr("Bob?"), Telephones: []string{"x", "y"}}

	first := v.Validate(record)
	second := v.Validate(record)
	require.Equal(t, first, second)
	require.Len(t, first, 3)
}

func TestRules_Order(t *testing.T) {
	require.Len(t, validate.Rules(), 4)
}
