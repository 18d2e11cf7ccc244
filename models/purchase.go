package models

type PurchaseType string

const (
	PurchaseTypeOutright    PurchaseType = "OUTRIGHT"
	PurchaseTypeMortgage    PurchaseType = "MORTGAGE"
	PurchaseTypeInstallment PurchaseType = "INSTALLMENT"
)

var purchaseTypeHumanName = map[PurchaseType]string{
	PurchaseTypeOutright:    "Прямая покупка",
	PurchaseTypeMortgage:    "Ипотека",
	PurchaseTypeInstallment: "Рассрочка",
}

func (t PurchaseType) ToHuman() string {
	if human, exist := purchaseTypeHumanName[t]; exist {
		return human
	}
	return string(t)
}

func (t PurchaseType) IsValid() bool {
	switch t {
	case PurchaseTypeOutright, PurchaseTypeMortgage, PurchaseTypeInstallment:
		return true
	}
	return false
}

type ApplicationStage string

const (
	AppStageOfferLetter         ApplicationStage = "OFFER_LETTER"
	AppStagePropertyClosing     ApplicationStage = "PROPERTY_CLOSING"
	AppStageEscrowMeeting       ApplicationStage = "ESCROW_MEETING"
	AppStagePaymentTracker      ApplicationStage = "PAYMENT_TRACKER"
	AppStagePurchased           ApplicationStage = "PURCHASED"
	AppStagePreQualification    ApplicationStage = "PRE_QUALIFICATION"
	AppStageDecisionInPrinciple ApplicationStage = "DECISION_IN_PRINCIPLE"
	AppStageUploadDocument      ApplicationStage = "UPLOAD_DOCUMENT"
	AppStageLoanDecision        ApplicationStage = "LOAN_DECISION"
	AppStageLoanOffer           ApplicationStage = "LOAN_OFFER"
	AppStageConditionPrecedent  ApplicationStage = "CONDITION_PRECEDENT"
	AppStageRepayment           ApplicationStage = "REPAYMENT"
	AppStagePaymentCalculator   ApplicationStage = "PAYMENT_CALCULATOR"
)

var appStageHumanName = map[ApplicationStage]string{
	AppStageOfferLetter:         "Оферта",
	AppStagePropertyClosing:     "Оформление сделки",
	AppStageEscrowMeeting:       "Встреча по эскроу",
	AppStagePaymentTracker:      "Контроль оплаты",
	AppStagePurchased:           "Покупка завершена",
	AppStagePreQualification:    "Предварительная квалификация",
	AppStageDecisionInPrinciple: "Предварительное решение банка",
	AppStageUploadDocument:      "Загрузка документов",
	AppStageLoanDecision:        "Решение по кредиту",
	AppStageLoanOffer:           "Кредитное предложение",
	AppStageConditionPrecedent:  "Отлагательные условия",
	AppStageRepayment:           "Погашение",
	AppStagePaymentCalculator:   "Калькулятор платежей",
}

func (s ApplicationStage) ToHuman() string {
	if human, exist := appStageHumanName[s]; exist {
		return human
	}
	return string(s)
}

type DipStatus string

const (
	DipStatusGenerated        DipStatus = "GENERATED"
	DipStatusPaymentPending   DipStatus = "PAYMENT_PENDING"
	DipStatusPaymentCompleted DipStatus = "PAYMENT_COMPLETED"
)

type ConditionPrecedentStatus string

const (
	CpStatusPending   ConditionPrecedentStatus = "PENDING"
	CpStatusCompleted ConditionPrecedentStatus = "COMPLETED"
)

type LoanOfferStatus string

const (
	LoanOfferStatusGenerated LoanOfferStatus = "GENERATED"
	LoanOfferStatusAccepted  LoanOfferStatus = "ACCEPTED"
	LoanOfferStatusDeclined  LoanOfferStatus = "DECLINED"
)

type RepaymentStatus string

const (
	RepaymentStatusPending RepaymentStatus = "PENDING"
	RepaymentStatusDue     RepaymentStatus = "DUE"
	RepaymentStatusOverdue RepaymentStatus = "OVERDUE"
	RepaymentStatusPaid    RepaymentStatus = "PAID"
)
