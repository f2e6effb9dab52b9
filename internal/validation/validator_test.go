package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequiredMissing(t *testing.T) {
	result := Validate(map[string]any{}, RuleSet{
		"title": {Required(), IsString()},
	})

	assert.False(t, result.IsValid)
	assert.Equal(t, "The title field is required", result.Errors["title"])
}

func TestValidateRequiredBlankString(t *testing.T) {
	result := Validate(map[string]any{"title": "   "}, RuleSet{
		"title": {Required(), IsString()},
	})

	assert.False(t, result.IsValid)
	assert.Equal(t, "The title field is required", result.Errors["title"])
}

func TestValidateAbsentOptionalSkipped(t *testing.T) {
	result := Validate(map[string]any{}, RuleSet{
		"notes": {IsString(), MaxLen(10)},
	})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Sanitized)
}

func TestValidateStringSanitization(t *testing.T) {
	result := Validate(map[string]any{
		"title": `<script>alert("x")</script>Quarterly review`,
	}, RuleSet{
		"title": {Required(), IsString()},
	})

	require.True(t, result.IsValid)
	got, ok := result.Sanitized["title"].(string)
	require.True(t, ok)
	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "Quarterly review")
}

func TestValidateStringEscapesEntities(t *testing.T) {
	result := Validate(map[string]any{
		"title": "a < b & c",
	}, RuleSet{
		"title": {Required(), IsString()},
	})

	require.True(t, result.IsValid)
	got := result.Sanitized["title"].(string)
	assert.NotContains(t, got, "<")
	assert.Contains(t, got, "&lt;")
}

func TestValidateStringTypeMismatch(t *testing.T) {
	result := Validate(map[string]any{"title": 42.0}, RuleSet{
		"title": {Required(), IsString()},
	})

	assert.False(t, result.IsValid)
	assert.Equal(t, "The title must be a string", result.Errors["title"])
}

func TestValidateEmail(t *testing.T) {
	result := Validate(map[string]any{"email": "auditor@example.com"}, RuleSet{
		"email": {Required(), IsEmail()},
	})

	assert.True(t, result.IsValid)
	assert.Equal(t, "auditor@example.com", result.Sanitized["email"])

	result = Validate(map[string]any{"email": "not-an-email"}, RuleSet{
		"email": {Required(), IsEmail()},
	})
	assert.False(t, result.IsValid)
	assert.Equal(t, "Invalid email format", result.Errors["email"])
}

func TestValidateNumber(t *testing.T) {
	// JSON numbers decode as float64.
	result := Validate(map[string]any{"audit_id": 7.0}, RuleSet{
		"audit_id": {Required(), IsNumber()},
	})
	require.True(t, result.IsValid)
	assert.Equal(t, "7", result.Sanitized["audit_id"])

	result = Validate(map[string]any{"audit_id": "seven"}, RuleSet{
		"audit_id": {Required(), IsNumber()},
	})
	assert.False(t, result.IsValid)
	assert.Equal(t, "The audit_id must be a number", result.Errors["audit_id"])
}

func TestValidateNumericZeroIsPresent(t *testing.T) {
	result := Validate(map[string]any{"audit_id": 0.0}, RuleSet{
		"audit_id": {Required(), IsNumber()},
	})

	assert.True(t, result.IsValid)
	assert.Equal(t, "0", result.Sanitized["audit_id"])
}

func TestValidateDateNormalization(t *testing.T) {
	for _, raw := range []string{
		"2025-03-15",
		"2025-03-15 10:30:00",
		"2025/03/15",
		"03/15/2025",
		"March 15, 2025",
	} {
		result := Validate(map[string]any{"date": raw}, RuleSet{
			"date": {Required(), IsDate()},
		})
		require.True(t, result.IsValid, "input %q", raw)
		assert.Equal(t, "2025-03-15", result.Sanitized["date"], "input %q", raw)
	}
}

func TestValidateDateUnparseable(t *testing.T) {
	result := Validate(map[string]any{"date": "next tuesday"}, RuleSet{
		"date": {Required(), IsDate()},
	})

	assert.False(t, result.IsValid)
	assert.Equal(t, "Invalid date format for date", result.Errors["date"])
	_, present := result.Sanitized["date"]
	assert.False(t, present)
}

func TestValidateLengthBounds(t *testing.T) {
	result := Validate(map[string]any{"username": "ab"}, RuleSet{
		"username": {Required(), IsString(), MinLen(3), MaxLen(50)},
	})
	assert.False(t, result.IsValid)
	assert.Equal(t, "The username must be at least 3 characters", result.Errors["username"])

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	result = Validate(map[string]any{"username": string(long)}, RuleSet{
		"username": {Required(), IsString(), MinLen(3), MaxLen(50)},
	})
	assert.False(t, result.IsValid)
	assert.Equal(t, "The username must not exceed 50 characters", result.Errors["username"])
}

func TestValidateLastViolationWins(t *testing.T) {
	// Both the string check and the min-length check fail; the error
	// reported is from the rule evaluated last.
	result := Validate(map[string]any{"username": 1.0}, RuleSet{
		"username": {Required(), IsString(), MinLen(3)},
	})

	assert.False(t, result.IsValid)
	assert.Equal(t, "The username must be at least 3 characters", result.Errors["username"])
}

func TestValidateEmptyOptionalSkipsRules(t *testing.T) {
	result := Validate(map[string]any{"notes": ""}, RuleSet{
		"notes": {IsString(), MinLen(5)},
	})

	assert.True(t, result.IsValid)
	_, present := result.Sanitized["notes"]
	assert.False(t, present)
}

func TestUserRegistrationRulesEndToEnd(t *testing.T) {
	result := Validate(map[string]any{
		"username": "auditor1",
		"email":    "auditor@example.com",
		"password": "Sup3rSecret",
	}, UserRegistrationRules())

	assert.True(t, result.IsValid)

	result = Validate(map[string]any{
		"username": "auditor1",
		"email":    "auditor@example.com",
		"password": "short",
	}, UserRegistrationRules())

	assert.False(t, result.IsValid)
	assert.Equal(t, "The password must be at least 8 characters", result.Errors["password"])
}
