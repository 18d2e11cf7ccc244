package rbac

import (
	"estate-finance-backend/models"
)

var (
	AllRoles        = []models.UserRole{models.HsfAdminRole, models.DeveloperAdminRole, models.LenderAdminRole, models.BuyerRole}
	ReviewerRoleSet = []models.UserRole{models.HsfAdminRole, models.DeveloperAdminRole, models.LenderAdminRole}
	HsfRoleSet      = []models.UserRole{models.HsfAdminRole}
	LenderRoleSet   = []models.UserRole{models.LenderAdminRole}
	BuyerRoleSet    = []models.UserRole{models.BuyerRole}
)

func (i *impl) initRules() {
	i.application()
	i.reviewRequest()
	i.dip()
	i.loan()
	i.repayment()
	i.profile()
	i.dict()
}

func (i *impl) application() {
	// VIEW
	i.RegisterRule(models.ApplicationModule, models.ViewPermission, AllRoles, "/api/v1/applications/list [post]", nil)
	i.RegisterRule(models.ApplicationModule, models.ViewPermission, AllRoles, "/api/v1/applications/{id} [get]", nil)
	i.RegisterRule(models.ApplicationModule, models.ViewPermission, AllRoles, "/api/v1/applications/{id}/documents [get]", nil)
	i.RegisterRule(models.ApplicationModule, models.ViewPermission, AllRoles, "/api/v1/applications/{id}/documents/{doc_id} [get]", nil)
	// CREATE
	i.RegisterRule(models.ApplicationModule, models.CreatePermission, BuyerRoleSet, "/api/v1/applications [post]", nil)
	// EDIT
	i.RegisterRule(models.ApplicationModule, models.EditPermission, HsfRoleSet, "/api/v1/applications/{id}/prequalification/complete [put]", nil)
	i.RegisterRule(models.ApplicationModule, models.EditPermission, BuyerRoleSet, "/api/v1/applications/{id}/offer_letter [put]", nil)
	i.RegisterRule(models.ApplicationModule, models.EditPermission, HsfRoleSet, "/api/v1/applications/{id}/decline [put]", nil)
	i.RegisterRule(models.ApplicationModule, models.EditPermission, BuyerRoleSet, "/api/v1/applications/{id}/resubmit [put]", nil)
	i.RegisterRule(models.ApplicationModule, models.EditPermission, BuyerRoleSet, "/api/v1/applications/{id}/documents [post]", nil)
	i.RegisterRule(models.ApplicationModule, models.EditPermission, BuyerRoleSet, "/api/v1/applications/{id}/documents/submit [put]", nil)
}

func (i *impl) reviewRequest() {
	// VIEW
	i.RegisterRule(models.ReviewRequestModule, models.ViewPermission, AllRoles, "/api/v1/review_requests/{id} [get]", nil)
	i.RegisterRule(models.ReviewRequestModule, models.ViewPermission, AllRoles, "/api/v1/review_requests/{id}/current_stage [get]", nil)
	i.RegisterRule(models.ReviewRequestModule, models.ViewPermission, AllRoles, "/api/v1/review_requests/{id}/approvals [get]", nil)
	i.RegisterRule(models.ReviewRequestModule, models.ViewPermission, AllRoles, "/api/v1/review_requests/{id}/history [get]", nil)
	// DECIDE - допуск роли к конкретному этапу проверяет движок согласования
	i.RegisterRule(models.ReviewRequestModule, models.DecidePermission, ReviewerRoleSet, "/api/v1/review_requests/{id}/decide [put]", nil)
	// MANAGE - перенастройка каталога согласования
	i.RegisterRule(models.ReviewRequestModule, models.ManagePermission, HsfRoleSet, "/api/v1/review_catalog/stages/{id}/disable [put]", nil)
}

func (i *impl) dip() {
	// VIEW
	i.RegisterRule(models.DipModule, models.ViewPermission, AllRoles, "/api/v1/applications/{id}/dip [get]", nil)
}

func (i *impl) loan() {
	// VIEW
	i.RegisterRule(models.LoanModule, models.ViewPermission, AllRoles, "/api/v1/applications/{id}/condition_precedents [get]", nil)
	i.RegisterRule(models.LoanModule, models.ViewPermission, AllRoles, "/api/v1/applications/{id}/loan_offer [get]", nil)
	// MANAGE
	i.RegisterRule(models.LoanModule, models.ManagePermission, LenderRoleSet, "/api/v1/applications/{id}/condition_precedent [post]", nil)
	i.RegisterRule(models.LoanModule, models.ManagePermission, LenderRoleSet, "/api/v1/condition_precedents/{id}/complete [put]", nil)
	// EDIT
	i.RegisterRule(models.LoanModule, models.EditPermission, BuyerRoleSet, "/api/v1/applications/{id}/loan_offer/accept [put]", nil)
}

func (i *impl) repayment() {
	// VIEW
	i.RegisterRule(models.RepaymentModule, models.ViewPermission, AllRoles, "/api/v1/applications/{id}/repayments [get]", nil)
	// EXPORT
	i.RegisterRule(models.RepaymentModule, models.ExportPermission, AllRoles, "/api/v1/applications/{id}/repayments/export [get]", nil)
	// PAYMENT
	i.RegisterRule(models.RepaymentModule, models.PaymentPermission, BuyerRoleSet, "/api/v1/repayments/{id}/pay [put]", nil)
}

func (i *impl) profile() {
	i.RegisterRule(models.ProfileModule, models.EditPermission, AllRoles, "/api/v1/auth/logout [post]", nil)
}

func (i *impl) dict() {
	i.RegisterRule(models.DictModule, models.ViewPermission, AllRoles, "/api/v1/dict/decline_reasons [get]", nil)
}
