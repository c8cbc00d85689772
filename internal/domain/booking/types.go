package booking

// Category tags what kind of reservation this is and selects the Details
// variant carried by the booking.
type Category string

const (
	CategoryRoom      Category = "room"
	CategoryYoga      Category = "yoga"
	CategoryTransport Category = "transport"
	CategoryAdventure Category = "adventure"
	CategoryMixed     Category = "mixed-service"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryRoom, CategoryYoga, CategoryTransport, CategoryAdventure, CategoryMixed:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	return string(c)
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	default:
		return false
	}
}

func (p PaymentStatus) String() string {
	return string(p)
}
