package models

type NotifyCode string

type NotifyTpl struct {
	Name  string
	Title string
	Msg   string
}

var NotifyCodeMap = map[NotifyCode]NotifyTpl{
	NotifyReviewStageAdvanced: {Name: "Переход согласования на следующий этап", Title: "Согласование на новом этапе", Msg: "Запрос «%v» перешёл на этап «%v»."},
	NotifyReviewApproved:      {Name: "Согласование завершено", Title: "Запрос согласован", Msg: "Запрос «%v» полностью согласован."},
	NotifyReviewRejected:      {Name: "Отклонение согласования", Title: "Запрос отклонён", Msg: "Запрос «%v» отклонён. Причина: %v."},

	NotifyApplicationAdvanced: {Name: "Переход заявки на следующий этап", Title: "Заявка на новом этапе", Msg: "Ваша заявка переведена на этап «%v»."},
	NotifyApplicationDeclined: {Name: "Отклонение заявки", Title: "Заявка отклонена", Msg: "Ваша заявка отклонена. Причина: %v."},

	NotifyDipGenerated:     {Name: "Сформировано предварительное решение", Title: "Предварительное решение готово", Msg: "По вашей заявке сформировано предварительное решение банка."},
	NotifyLoanGenerated:    {Name: "Сформировано кредитное предложение", Title: "Кредитное предложение готово", Msg: "По вашей заявке сформировано кредитное предложение."},
	NotifyRepaymentDue:     {Name: "Наступил срок платежа", Title: "Срок платежа", Msg: "Наступил срок платежа №%v на сумму %v."},
	NotifyRepaymentOverdue: {Name: "Просрочка платежа", Title: "Платёж просрочен", Msg: "Платёж №%v на сумму %v просрочен."},
}

const (
	NotifyReviewStageAdvanced NotifyCode = "NotifyReviewStageAdvanced"
	NotifyReviewApproved      NotifyCode = "NotifyReviewApproved"
	NotifyReviewRejected      NotifyCode = "NotifyReviewRejected"

	NotifyApplicationAdvanced NotifyCode = "NotifyApplicationAdvanced"
	NotifyApplicationDeclined NotifyCode = "NotifyApplicationDeclined"

	NotifyDipGenerated     NotifyCode = "NotifyDipGenerated"
	NotifyLoanGenerated    NotifyCode = "NotifyLoanGenerated"
	NotifyRepaymentDue     NotifyCode = "NotifyRepaymentDue"
	NotifyRepaymentOverdue NotifyCode = "NotifyRepaymentOverdue"
)
