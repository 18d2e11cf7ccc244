package reviewrequesthandler

import (
	"estate-finance-backend/models"
	dbmodels "estate-finance-backend/models/db"
)

// Чистые функции вычисления состояния согласования.
// Текущий этап нигде не хранится: он выводится из зафиксированных за
// запросом этапов и действующих решений, поэтому параллельные читатели
// всегда видят то же состояние, что проверяет гейт

type stageView struct {
	TypeStageID string
	Stage       models.ReviewStageName
	Order       int
	Policy      models.ApprovalPolicy
	Roles       []models.UserRole
}

func stageViewsOf(instances []dbmodels.ReviewRequestStageInstance) []stageView {
	result := make([]stageView, 0, len(instances))
	for _, inst := range instances {
		view := stageView{
			TypeStageID: inst.TypeStageID,
			Order:       inst.StageOrder,
			Policy:      inst.Policy,
		}
		if view.Policy == "" {
			view.Policy = models.PolicyAnyOne
		}
		if inst.TypeStage != nil {
			if inst.TypeStage.Stage != nil {
				view.Stage = inst.TypeStage.Stage.Name
			}
			for _, approver := range inst.TypeStage.Approvers {
				view.Roles = append(view.Roles, approver.Role)
			}
		}
		result = append(result, view)
	}
	return result
}

type evalResult struct {
	Status  models.ReviewStatus
	Current *stageView
}

// evaluate возвращает статус запроса и текущий этап.
// Отказ на любом этапе терминален независимо от решений по остальным.
// Текущий этап - первый, не закрытый согласованием по своей политике
func evaluate(stages []stageView, approvals []dbmodels.ReviewRequestApproval) evalResult {
	for _, approval := range approvals {
		if approval.Status == models.ReviewStatusRejected {
			return evalResult{Status: models.ReviewStatusRejected}
		}
	}
	for idx := range stages {
		if !stageSatisfied(stages[idx], approvals) {
			return evalResult{Status: models.ReviewStatusPending, Current: &stages[idx]}
		}
	}
	return evalResult{Status: models.ReviewStatusApproved}
}

func stageSatisfied(stage stageView, approvals []dbmodels.ReviewRequestApproval) bool {
	switch stage.Policy {
	case models.PolicyAll:
		for _, role := range stage.Roles {
			found := false
			for _, approval := range approvals {
				if approval.TypeStageID == stage.TypeStageID &&
					approval.Status == models.ReviewStatusApproved &&
					approval.Role == role {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default: // ANY_ONE
		for _, approval := range approvals {
			if approval.TypeStageID == stage.TypeStageID &&
				approval.Status == models.ReviewStatusApproved {
				return true
			}
		}
		return false
	}
}

func roleAllowed(stage stageView, role models.UserRole) bool {
	for _, allowed := range stage.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// hasOrgDecision - защита от повторного голоса: одна организация
// оставляет не больше одного действующего решения на этапе
func hasOrgDecision(stage stageView, approvals []dbmodels.ReviewRequestApproval, organizationID string) bool {
	for _, approval := range approvals {
		if approval.TypeStageID == stage.TypeStageID && approval.OrganizationID == organizationID {
			return true
		}
	}
	return false
}
