package retcode

// Business codes carried in the response envelope alongside the HTTP status.
const (
	SUCCESS          = 1
	INVALID          = -1
	DB_SAVE_ERROR    = -2
	DB_READ_ERROR    = -3
	NOT_EXISTS       = -8
	JSON_PARSE_FAIL  = -9
	EMPTY_PARAMS     = -12
	DATA_EXISTS      = -13
	AUTH_ERROR       = -14
	RECORD_NOT_FOUND = -19
	DELETE_FAILED    = -20
	ADD_FAILED       = -21
	UPDATE_FAILED    = -22
	PARAM_INVALID    = -995
	UNKNOWN          = -998
	EXCEPTION        = -999
)
