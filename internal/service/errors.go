package service

import "errors"

// Kind 错误类别：不存在 / 状态冲突 / 无权限 / 参数非法
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindForbidden
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindInvalidInput:
		return "invalid_input"
	}
	return "internal"
}

type Error struct {
	Kind Kind
	Code string
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newErr(k Kind, code, msg string) *Error { return &Error{Kind: k, Code: code, Msg: msg} }

var (
	ErrRestaurantNotFound = newErr(KindNotFound, "restaurant_not_found", "restaurant not found")
	ErrUserNotFound       = newErr(KindNotFound, "user_not_found", "user not found")
	ErrCommentNotFound    = newErr(KindNotFound, "comment_not_found", "comment not found")
	ErrReportNotFound     = newErr(KindNotFound, "report_not_found", "report not found")
	ErrScanNotFound       = newErr(KindNotFound, "scan_not_found", "scan not found")

	ErrAlreadyFavorited = newErr(KindConflict, "already_favorited", "restaurant already in favorites")
	ErrAlreadyResolved  = newErr(KindConflict, "already_resolved", "report already resolved")
	ErrEmailTaken       = newErr(KindConflict, "email_taken", "email already registered")

	ErrNotOwner         = newErr(KindForbidden, "not_owner", "only the author may edit this comment")
	ErrNotAdmin         = newErr(KindForbidden, "not_admin", "admin role required")
	ErrNotRestaurantOwn = newErr(KindForbidden, "not_restaurant_owner", "only the owner or an admin may change this restaurant")
	ErrBadCredentials   = newErr(KindForbidden, "bad_credentials", "invalid credentials")

	ErrInvalidDisposition = newErr(KindInvalidInput, "invalid_disposition", "disposition must be BANNED or DISMISSED")
	ErrMissingBanDuration = newErr(KindInvalidInput, "missing_ban_duration", "ban duration is required when banning")
	ErrInvalidBanDuration = newErr(KindInvalidInput, "invalid_ban_duration", "ban duration must be positive")
	ErrInvalidTargetKind  = newErr(KindInvalidInput, "invalid_target_kind", "target kind must be comment or restaurant")
	ErrMissingRestaurant  = newErr(KindInvalidInput, "missing_restaurant", "restaurant id is required for comment reports")
	ErrMissingReason      = newErr(KindInvalidInput, "missing_reason", "reason is required")
	ErrInvalidCoordinates = newErr(KindInvalidInput, "invalid_coordinates", "latitude must be within [-90,90] and longitude within [-180,180]")
	ErrInvalidRadius      = newErr(KindInvalidInput, "invalid_radius", "radius must be a non-negative number of meters")
	ErrInvalidRating      = newErr(KindInvalidInput, "invalid_rating", "rating must be between 0 and 5")
	ErrEmptyComment       = newErr(KindInvalidInput, "empty_comment", "comment text is required")
	ErrEmptyUpdate        = newErr(KindInvalidInput, "empty_update", "nothing to update")
	ErrMissingName        = newErr(KindInvalidInput, "missing_name", "name is required")
	ErrInvalidCredentials = newErr(KindInvalidInput, "invalid_credentials_input", "email and password are required")
)

// KindOf 取错误链上第一个 *Error 的 Kind，没有则为 KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
