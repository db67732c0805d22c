package log

// Field names shared by every log line.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldReferer    = "referer"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUsername   = "username"
	FieldKind       = "kind"
	FieldTxID       = "transaction_id"
	FieldTxDesc     = "description"
	FieldAmount     = "amount"
	FieldCategory   = "category"
	FieldRange      = "range"
)

const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentFinance  = "finance"
	ComponentAuth     = "auth"
	ComponentStorage  = "storage"
	ComponentWorker   = "worker"
	ComponentBackend  = "backend"
	ComponentTemplate = "template"
)

const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpLogin    = "login"
	OpLogout   = "logout"
	OpStats    = "stats"
	OpValidate = "validate"
	OpRender   = "render"
)

// LogFields collects attributes for one structured log call.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds transaction-related fields. Amount is the decimal text form.
func (f LogFields) WithTransaction(kind string, id int64, desc, amount, category string) LogFields {
	f[FieldKind] = kind
	f[FieldTxID] = id
	f[FieldTxDesc] = desc
	f[FieldAmount] = amount
	f[FieldCategory] = category
	return f
}

// WithUser adds the username field when known
func (f LogFields) WithUser(username string) LogFields {
	if username != "" {
		f[FieldUsername] = username
	}
	return f
}

func (f LogFields) WithHTTPRequest(method, path, query, userAgent, referer string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	f[FieldUserAgent] = userAgent
	f[FieldReferer] = referer
	return f
}

// WithHTTPResponse records the outcome of a served request.
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice flattens the fields into slog key/value arguments.
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}