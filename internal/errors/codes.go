package errors

// Error code constants returned in the errorType field of the JSON envelope.
// Format: CATEGORY_SPECIFIC_DETAIL. The frontend maps these to copy.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED" // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidPhone = "VALIDATION_INVALID_PHONE"

	// ==================== Review URL conflicts (URL_) ====================
	URLInvalid            = "URL_INVALID"              // not a recognizable Maps review link
	URLDuplicateOwn       = "URL_DUPLICATE_OWN"        // collides with the actor's own business
	URLDuplicateForeign   = "URL_DUPLICATE_FOREIGN"    // collides with another owner's business
	URLDuplicateAdminFlow = "URL_DUPLICATE_ADMIN_FLOW" // admin-facing collision with full owner detail

	// ==================== Business (BUSINESS_) ====================
	BusinessNotFound        = "BUSINESS_NOT_FOUND"
	BusinessNoPreviousState = "BUSINESS_NO_PREVIOUS_STATE" // restore without an archive snapshot
	BusinessLimitReached    = "BUSINESS_LIMIT_REACHED"     // plan max businesses
	BusinessInactive        = "BUSINESS_INACTIVE"

	// ==================== Review templates (TEMPLATE_) ====================
	TemplateLimitReached = "TEMPLATE_LIMIT_REACHED" // monthly generation cap
	TemplateRateLimited  = "TEMPLATE_RATE_LIMITED"

	// ==================== Generic resources (RESOURCE_) ====================
	ResourceNotFound = "RESOURCE_NOT_FOUND"
	UserNotFound     = "USER_NOT_FOUND"
	PlanNotFound     = "PLAN_NOT_FOUND"
	EmployeeNotFound = "EMPLOYEE_NOT_FOUND"
	FunnelNotFound   = "FUNNEL_NOT_FOUND"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
