package models

type ReviewKind string

const (
	ReviewKindOfferLetterOutright    ReviewKind = "OFFER_LETTER_OUTRIGHT"
	ReviewKindOfferLetterInstallment ReviewKind = "OFFER_LETTER_INSTALLMENT"
	ReviewKindDipDocumentReview      ReviewKind = "DIP_DOCUMENT_REVIEW"
	ReviewKindConditionPrecedent     ReviewKind = "CONDITION_PRECEDENT"
)

var reviewKindHumanName = map[ReviewKind]string{
	ReviewKindOfferLetterOutright:    "Согласование оферты (прямая покупка)",
	ReviewKindOfferLetterInstallment: "Согласование оферты (рассрочка)",
	ReviewKindDipDocumentReview:      "Проверка документов для предварительного решения",
	ReviewKindConditionPrecedent:     "Проверка отлагательных условий",
}

func (k ReviewKind) ToHuman() string {
	if human, exist := reviewKindHumanName[k]; exist {
		return human
	}
	return string(k)
}

type ReviewStageName string

const (
	StageHsfOfferLetterReview        ReviewStageName = "HSF_OFFER_LETTER_REVIEW"
	StageDeveloperOfferLetterReview  ReviewStageName = "DEVELOPER_OFFER_LETTER_REVIEW"
	StageHsfDocumentReview           ReviewStageName = "HSF_DOCUMENT_REVIEW"
	StageLenderDocumentReview        ReviewStageName = "LENDER_DOCUMENT_REVIEW"
	StageHsfConditionPrecedentReview ReviewStageName = "HSF_CONDITION_PRECEDENT_REVIEW"
	StageLenderConditionPrecedent    ReviewStageName = "LENDER_CONDITION_PRECEDENT_REVIEW"
)

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "PENDING"
	ReviewStatusApproved ReviewStatus = "APPROVED"
	ReviewStatusRejected ReviewStatus = "REJECTED"
)

var reviewStatusHumanName = map[ReviewStatus]string{
	ReviewStatusPending:  "На согласовании",
	ReviewStatusApproved: "Согласовано",
	ReviewStatusRejected: "Отклонено",
}

func (s ReviewStatus) ToHuman() string {
	if human, exist := reviewStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// терминальный статус меняться не может
func (s ReviewStatus) IsTerminal() bool {
	return s == ReviewStatusApproved || s == ReviewStatusRejected
}

// ApprovalPolicy - политика этапа при нескольких согласующих ролях:
// ANY_ONE - этап закрывает первое согласование, ALL - требуются решения всех ролей
type ApprovalPolicy string

const (
	PolicyAnyOne ApprovalPolicy = "ANY_ONE"
	PolicyAll    ApprovalPolicy = "ALL"
)
