package db

import (
	"estate-finance-backend/config"
	declinereasonstore "estate-finance-backend/lib/dicts/decline-reason/store"
	organizationstore "estate-finance-backend/lib/organization/store"
	orgusersstore "estate-finance-backend/lib/organization/users/store"
	reviewcatalogstore "estate-finance-backend/lib/review-catalog/store"
	authutils "estate-finance-backend/lib/utils/auth-utils"
	"estate-finance-backend/models"
	dbmodels "estate-finance-backend/models/db"

	log "github.com/sirupsen/logrus"
)

func InitPreload() {
	addAdminUser()
	fillReviewCatalog()
	fillDeclineReasons()
}

func addAdminUser() {
	if config.Conf.Admin.Email == "" {
		log.Warn("администратор платформы не добавлен, отсутвует настройка ADMIN_EMAIL")
		return
	}
	usersStore := orgusersstore.NewInstance(DB)
	existedRec, err := usersStore.FindByEmail(config.Conf.Admin.Email)
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора платформы")
		return
	}
	if existedRec != nil {
		return
	}
	orgStore := organizationstore.NewInstance(DB)
	org, err := orgStore.FindByType(models.OrganizationTypeHsf)
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора платформы")
		return
	}
	orgID := ""
	if org != nil {
		orgID = org.ID
	} else {
		orgID, err = orgStore.Create(dbmodels.Organization{
			Name:     "Home Sales Finance",
			Type:     models.OrganizationTypeHsf,
			IsActive: true,
		})
		if err != nil {
			log.WithError(err).Error("ошибка добавления организации платформы")
			return
		}
	}
	rec := dbmodels.OrganizationUser{
		OrganizationID: orgID,
		IsActive:       true,
		NotifyEnabled:  true,
		Role:           models.HsfAdminRole,
		Password:       authutils.GetMD5Hash(config.Conf.Admin.Password),
		FirstName:      config.Conf.Admin.FirstName,
		LastName:       config.Conf.Admin.LastName,
		Email:          config.Conf.Admin.Email,
		PhoneNumber:    config.Conf.Admin.PhoneNumber,
	}
	_, err = usersStore.Create(rec)
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора платформы")
	}
}

type stageSeed struct {
	name   models.ReviewStageName
	order  int
	policy models.ApprovalPolicy
	roles  []models.UserRole
}

var stageDescriptions = map[models.ReviewStageName]string{
	models.StageHsfOfferLetterReview:        "Проверка оферты оператором платформы",
	models.StageDeveloperOfferLetterReview:  "Согласование оферты застройщиком",
	models.StageHsfDocumentReview:           "Проверка документов оператором платформы",
	models.StageLenderDocumentReview:        "Проверка документов банком",
	models.StageHsfConditionPrecedentReview: "Проверка отлагательного условия оператором платформы",
	models.StageLenderConditionPrecedent:    "Проверка отлагательного условия банком",
}

var reviewChains = map[models.ReviewKind][]stageSeed{
	models.ReviewKindOfferLetterOutright: {
		{models.StageHsfOfferLetterReview, 1, models.PolicyAnyOne, []models.UserRole{models.HsfAdminRole}},
		{models.StageDeveloperOfferLetterReview, 2, models.PolicyAnyOne, []models.UserRole{models.DeveloperAdminRole}},
	},
	models.ReviewKindOfferLetterInstallment: {
		{models.StageHsfOfferLetterReview, 1, models.PolicyAnyOne, []models.UserRole{models.HsfAdminRole}},
		{models.StageDeveloperOfferLetterReview, 2, models.PolicyAnyOne, []models.UserRole{models.DeveloperAdminRole}},
	},
	models.ReviewKindDipDocumentReview: {
		{models.StageHsfDocumentReview, 1, models.PolicyAnyOne, []models.UserRole{models.HsfAdminRole}},
		{models.StageLenderDocumentReview, 2, models.PolicyAnyOne, []models.UserRole{models.LenderAdminRole}},
	},
	models.ReviewKindConditionPrecedent: {
		{models.StageHsfConditionPrecedentReview, 1, models.PolicyAnyOne, []models.UserRole{models.HsfAdminRole}},
		{models.StageLenderConditionPrecedent, 2, models.PolicyAll, []models.UserRole{models.LenderAdminRole}},
	},
}

func fillReviewCatalog() {
	store := reviewcatalogstore.NewInstance(DB)
	for kind, chain := range reviewChains {
		typeRec, err := store.GetTypeByKind(kind)
		if err != nil {
			log.WithError(err).Error("ошибка заполнения каталога согласований")
			return
		}
		typeID := ""
		if typeRec != nil {
			typeID = typeRec.ID
		} else {
			typeID, err = store.CreateType(dbmodels.ReviewRequestType{
				Kind:        kind,
				Description: kind.ToHuman(),
			})
			if err != nil {
				log.WithError(err).Error("ошибка заполнения каталога согласований")
				return
			}
		}
		existing, err := store.ListEnabledByType(typeID)
		if err != nil {
			log.WithError(err).Error("ошибка заполнения каталога согласований")
			return
		}
		if len(existing) > 0 {
			continue
		}
		for _, seed := range chain {
			stageRec, err := store.GetStageByName(seed.name)
			if err != nil {
				log.WithError(err).Error("ошибка заполнения каталога согласований")
				return
			}
			stageID := ""
			if stageRec != nil {
				stageID = stageRec.ID
			} else {
				stageID, err = store.CreateStage(dbmodels.ReviewRequestStage{
					Name:        seed.name,
					Description: stageDescriptions[seed.name],
				})
				if err != nil {
					log.WithError(err).Error("ошибка заполнения каталога согласований")
					return
				}
			}
			typeStageID, err := store.CreateTypeStage(dbmodels.ReviewRequestTypeStage{
				TypeID:     typeID,
				StageID:    stageID,
				StageOrder: seed.order,
				Enabled:    true,
				Policy:     seed.policy,
			})
			if err != nil {
				log.WithError(err).Error("ошибка заполнения каталога согласований")
				return
			}
			for _, role := range seed.roles {
				_, err = store.CreateApprover(dbmodels.ReviewRequestStageApprover{
					TypeStageID: typeStageID,
					Role:        role,
				})
				if err != nil {
					log.WithError(err).Error("ошибка заполнения каталога согласований")
					return
				}
			}
		}
	}
}

func fillDeclineReasons() {
	store := declinereasonstore.NewInstance(DB)
	list, err := store.List()
	if err != nil {
		log.WithError(err).Error("ошибка заполнения справочника причин отклонения")
		return
	}
	if len(list) > 0 {
		return
	}
	reasons := []string{
		"Недостаточный подтверждённый доход",
		"Неполный комплект документов",
		"Отрицательная кредитная история",
		"Объект не соответствует требованиям платформы",
		"Отказ по результатам проверки",
	}
	for _, name := range reasons {
		_, err := store.Create(dbmodels.DeclineReason{Name: name})
		if err != nil {
			log.WithError(err).Error("ошибка заполнения справочника причин отклонения")
			return
		}
	}
}
