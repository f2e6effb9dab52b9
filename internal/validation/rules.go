package validation

// Rule is one member of the closed set of validation rule variants.
// Construct rules with Required, IsEmail, IsString, IsNumber, IsDate,
// MinLen and MaxLen; the interpreter in Validate evaluates them.
type Rule struct {
	kind  ruleKind
	bound int
}

type ruleKind int

const (
	ruleRequired ruleKind = iota
	ruleEmail
	ruleString
	ruleNumber
	ruleDate
	ruleMinLen
	ruleMaxLen
)

func Required() Rule    { return Rule{kind: ruleRequired} }
func IsEmail() Rule     { return Rule{kind: ruleEmail} }
func IsString() Rule    { return Rule{kind: ruleString} }
func IsNumber() Rule    { return Rule{kind: ruleNumber} }
func IsDate() Rule      { return Rule{kind: ruleDate} }
func MinLen(n int) Rule { return Rule{kind: ruleMinLen, bound: n} }
func MaxLen(n int) Rule { return Rule{kind: ruleMaxLen, bound: n} }

// RuleSet maps a field name to the rules applied to it.
type RuleSet map[string][]Rule

// UserRegistrationRules validates signup payloads.
func UserRegistrationRules() RuleSet {
	return RuleSet{
		"username": {Required(), IsString(), MinLen(3), MaxLen(50)},
		"email":    {Required(), IsEmail()},
		"password": {Required(), MinLen(8)},
		"role":     {IsString()},
	}
}

// UserLoginRules validates login payloads.
func UserLoginRules() RuleSet {
	return RuleSet{
		"email":    {Required(), IsEmail()},
		"password": {Required()},
	}
}

// UserAdminUpdateRules validates the admin account update payload. The
// password field is checked separately for strength.
func UserAdminUpdateRules() RuleSet {
	return RuleSet{
		"username": {IsString(), MinLen(3), MaxLen(50)},
		"email":    {IsEmail()},
		"role":     {IsString()},
	}
}

// AuditRules validates audit creation.
func AuditRules() RuleSet {
	return RuleSet{
		"title":       {Required(), IsString(), MaxLen(255)},
		"description": {Required(), IsString()},
		"date":        {Required(), IsDate()},
		"status":      {Required(), IsString()},
		"type":        {Required(), IsString()},
	}
}

// AuditAdminUpdateRules validates the admin audit update payload.
func AuditAdminUpdateRules() RuleSet {
	return RuleSet{
		"status":          {IsString()},
		"findings":        {IsString()},
		"recommendations": {IsString()},
	}
}

// ReportRules validates report creation where the caller may choose the
// initial status.
func ReportRules() RuleSet {
	return RuleSet{
		"title":    {Required(), IsString(), MaxLen(255)},
		"content":  {Required(), IsString()},
		"audit_id": {Required(), IsNumber()},
		"status":   {Required(), IsString()},
	}
}

// UserReportRules validates report creation through the user endpoint,
// where the status is forced to draft and not part of the payload.
func UserReportRules() RuleSet {
	return RuleSet{
		"title":    {Required(), IsString(), MaxLen(255)},
		"content":  {Required(), IsString()},
		"audit_id": {Required(), IsNumber()},
	}
}

// AssessmentRules validates compliance assessment creation.
func AssessmentRules() RuleSet {
	return RuleSet{
		"requirement_id": {Required(), IsNumber()},
		"audit_id":       {Required(), IsNumber()},
		"status":         {Required(), IsString()},
		"evidence":       {IsString()},
		"notes":          {IsString()},
	}
}

// StandardRules validates compliance standard creation.
func StandardRules() RuleSet {
	return RuleSet{
		"name":    {Required(), IsString(), MaxLen(255)},
		"version": {Required(), IsString(), MaxLen(50)},
	}
}

// RequirementRules validates compliance requirement creation.
func RequirementRules() RuleSet {
	return RuleSet{
		"standard_id":      {Required(), IsNumber()},
		"requirement_code": {Required(), IsString(), MaxLen(50)},
		"description":      {Required(), IsString()},
	}
}

// AssessmentUpdateRules validates compliance assessment updates.
func AssessmentUpdateRules() RuleSet {
	return RuleSet{
		"status":   {IsString()},
		"evidence": {IsString()},
		"notes":    {IsString()},
	}
}
