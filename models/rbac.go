package models

type RbacFunc func(organizationID, userID string, role UserRole, path string) bool

type Module string

const (
	UsersModule         Module = "USERS"
	ApplicationModule   Module = "APPLICATION"
	ReviewRequestModule Module = "REVIEW_REQUEST"
	DipModule           Module = "DIP"
	LoanModule          Module = "LOAN"
	RepaymentModule     Module = "REPAYMENT"
	ProfileModule       Module = "PROFILE"
	DictModule          Module = "DICT"
)

type Permission string

const (
	CreatePermission  Permission = "CREATE"
	EditPermission    Permission = "EDIT"
	ViewPermission    Permission = "VIEW"
	ManagePermission  Permission = "MANAGE"
	DecidePermission  Permission = "DECIDE"
	ExportPermission  Permission = "EXPORT"
	PaymentPermission Permission = "PAYMENT"
)
