package reviewrequesthandler

import (
	"testing"

	"estate-finance-backend/models"
	dbmodels "estate-finance-backend/models/db"

	"github.com/stretchr/testify/require"
)

func makeStage(typeStageID string, order int, policy models.ApprovalPolicy, name models.ReviewStageName, roles ...models.UserRole) stageView {
	return stageView{
		TypeStageID: typeStageID,
		Stage:       name,
		Order:       order,
		Policy:      policy,
		Roles:       roles,
	}
}

func makeApproval(typeStageID, organizationID string, role models.UserRole, status models.ReviewStatus) dbmodels.ReviewRequestApproval {
	return dbmodels.ReviewRequestApproval{
		TypeStageID:    typeStageID,
		OrganizationID: organizationID,
		Role:           role,
		Status:         status,
	}
}

func TestEvaluate(t *testing.T) {
	twoStages := []stageView{
		makeStage("ts1", 1, models.PolicyAnyOne, models.StageHsfOfferLetterReview, models.HsfAdminRole),
		makeStage("ts2", 2, models.PolicyAnyOne, models.StageDeveloperOfferLetterReview, models.DeveloperAdminRole),
	}

	t.Run("без решений текущий этап первый", func(t *testing.T) {
		res := evaluate(twoStages, nil)
		require.Equal(t, models.ReviewStatusPending, res.Status)
		require.NotNil(t, res.Current)
		require.Equal(t, "ts1", res.Current.TypeStageID)
	})

	t.Run("согласование первого этапа двигает на второй", func(t *testing.T) {
		approvals := []dbmodels.ReviewRequestApproval{
			makeApproval("ts1", "org-hsf", models.HsfAdminRole, models.ReviewStatusApproved),
		}
		res := evaluate(twoStages, approvals)
		require.Equal(t, models.ReviewStatusPending, res.Status)
		require.NotNil(t, res.Current)
		require.Equal(t, "ts2", res.Current.TypeStageID)
	})

	t.Run("все этапы согласованы", func(t *testing.T) {
		approvals := []dbmodels.ReviewRequestApproval{
			makeApproval("ts1", "org-hsf", models.HsfAdminRole, models.ReviewStatusApproved),
			makeApproval("ts2", "org-dev", models.DeveloperAdminRole, models.ReviewStatusApproved),
		}
		res := evaluate(twoStages, approvals)
		require.Equal(t, models.ReviewStatusApproved, res.Status)
		require.Nil(t, res.Current)
	})

	t.Run("отказ терминален независимо от остальных решений", func(t *testing.T) {
		approvals := []dbmodels.ReviewRequestApproval{
			makeApproval("ts1", "org-hsf", models.HsfAdminRole, models.ReviewStatusApproved),
			makeApproval("ts2", "org-dev", models.DeveloperAdminRole, models.ReviewStatusRejected),
		}
		res := evaluate(twoStages, approvals)
		require.Equal(t, models.ReviewStatusRejected, res.Status)
		require.Nil(t, res.Current)
	})

	t.Run("политика ALL требует решения каждой роли", func(t *testing.T) {
		stages := []stageView{
			makeStage("ts1", 1, models.PolicyAll, models.StageLenderConditionPrecedent,
				models.HsfAdminRole, models.LenderAdminRole),
		}
		approvals := []dbmodels.ReviewRequestApproval{
			makeApproval("ts1", "org-hsf", models.HsfAdminRole, models.ReviewStatusApproved),
		}
		res := evaluate(stages, approvals)
		require.Equal(t, models.ReviewStatusPending, res.Status)
		require.NotNil(t, res.Current)

		approvals = append(approvals,
			makeApproval("ts1", "org-lender", models.LenderAdminRole, models.ReviewStatusApproved))
		res = evaluate(stages, approvals)
		require.Equal(t, models.ReviewStatusApproved, res.Status)
	})

	t.Run("решение чужого этапа не закрывает текущий", func(t *testing.T) {
		approvals := []dbmodels.ReviewRequestApproval{
			makeApproval("ts2", "org-dev", models.DeveloperAdminRole, models.ReviewStatusApproved),
		}
		res := evaluate(twoStages, approvals)
		require.Equal(t, models.ReviewStatusPending, res.Status)
		require.NotNil(t, res.Current)
		require.Equal(t, "ts1", res.Current.TypeStageID)
	})
}

func TestRoleAllowed(t *testing.T) {
	stage := makeStage("ts1", 1, models.PolicyAnyOne, models.StageHsfOfferLetterReview, models.HsfAdminRole)
	require.True(t, roleAllowed(stage, models.HsfAdminRole))
	require.False(t, roleAllowed(stage, models.LenderAdminRole))
	require.False(t, roleAllowed(stage, models.BuyerRole))
}

func TestHasOrgDecision(t *testing.T) {
	stage := makeStage("ts1", 1, models.PolicyAnyOne, models.StageHsfOfferLetterReview, models.HsfAdminRole)
	approvals := []dbmodels.ReviewRequestApproval{
		makeApproval("ts1", "org-hsf", models.HsfAdminRole, models.ReviewStatusApproved),
	}
	require.True(t, hasOrgDecision(stage, approvals, "org-hsf"))
	require.False(t, hasOrgDecision(stage, approvals, "org-other"))
	// решение той же организации на другом этапе не в счёт
	other := makeStage("ts2", 2, models.PolicyAnyOne, models.StageDeveloperOfferLetterReview, models.DeveloperAdminRole)
	require.False(t, hasOrgDecision(other, approvals, "org-hsf"))
}

func TestStageViewsOf(t *testing.T) {
	instances := []dbmodels.ReviewRequestStageInstance{
		{
			TypeStageID: "ts1",
			StageOrder:  1,
			TypeStage: &dbmodels.ReviewRequestTypeStage{
				Stage: &dbmodels.ReviewRequestStage{Name: models.StageHsfOfferLetterReview},
				Approvers: []dbmodels.ReviewRequestStageApprover{
					{Role: models.HsfAdminRole},
				},
			},
		},
	}
	views := stageViewsOf(instances)
	require.Len(t, views, 1)
	require.Equal(t, models.StageHsfOfferLetterReview, views[0].Stage)
	// пустая политика трактуется как ANY_ONE
	require.Equal(t, models.PolicyAnyOne, views[0].Policy)
	require.Equal(t, []models.UserRole{models.HsfAdminRole}, views[0].Roles)
}
