package api

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "accounts.AccountService"

// Full method names, as seen by interceptors and used by clients.
const (
	RegisterMethod       = "/" + ServiceName + "/Register"
	LoginMethod          = "/" + ServiceName + "/Login"
	VerifyMethod         = "/" + ServiceName + "/Verify"
	ForgotPasswordMethod = "/" + ServiceName + "/ForgotPassword"
	ResetPasswordMethod  = "/" + ServiceName + "/ResetPassword"
)
