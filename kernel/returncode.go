package kernel

// ReturnCode is the status value passed across the syscall boundary and
// delivered as the first upcall argument when an operation fails.
type ReturnCode int

const (
	Success      ReturnCode = 0
	ErrFail      ReturnCode = -1  // unspecified failure
	ErrBusy      ReturnCode = -2  // resource claimed by another request
	ErrReserve   ReturnCode = -5  // a reserved buffer is unexpectedly absent
	ErrInvalid   ReturnCode = -6  // required registration missing
	ErrSize      ReturnCode = -7  // request exceeds a hardware limit
	ErrCancel    ReturnCode = -8  // operation aborted
	ErrNoSupport ReturnCode = -10 // unknown command or registration selector
	ErrNoDevice  ReturnCode = -11 // no such driver or process
)

func (rc ReturnCode) String() string {
	switch rc {
	case Success:
		return "success"
	case ErrFail:
		return "fail"
	case ErrBusy:
		return "busy"
	case ErrReserve:
		return "reserve"
	case ErrInvalid:
		return "invalid"
	case ErrSize:
		return "size"
	case ErrCancel:
		return "cancel"
	case ErrNoSupport:
		return "no support"
	case ErrNoDevice:
		return "no device"
	default:
		return "unknown"
	}
}

// Ok reports whether the code is Success.
func (rc ReturnCode) Ok() bool { return rc == Success }
