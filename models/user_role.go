package models

type UserRole string

const (
	HsfAdminRole       UserRole = "HSF_ADMIN"
	DeveloperAdminRole UserRole = "DEVELOPER_ADMIN"
	LenderAdminRole    UserRole = "LENDER_ADMIN"
	BuyerRole          UserRole = "BUYER"
)

var roleHumanName = map[UserRole]string{
	HsfAdminRole:       "Администратор платформы",
	DeveloperAdminRole: "Администратор застройщика",
	LenderAdminRole:    "Администратор банка",
	BuyerRole:          "Покупатель",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsHsfAdmin() bool {
	return r == HsfAdminRole
}

const SystemUser = "Система"

type OrganizationType string

const (
	OrganizationTypeHsf       OrganizationType = "HSF"
	OrganizationTypeDeveloper OrganizationType = "DEVELOPER"
	OrganizationTypeLender    OrganizationType = "LENDER"
)

var orgTypeHumanName = map[OrganizationType]string{
	OrganizationTypeHsf:       "Оператор платформы",
	OrganizationTypeDeveloper: "Застройщик",
	OrganizationTypeLender:    "Банк-кредитор",
}

func (t OrganizationType) ToHuman() string {
	if human, exist := orgTypeHumanName[t]; exist {
		return human
	}
	return string(t)
}
