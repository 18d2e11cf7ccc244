package models

// OfferLetterData - данные для шаблона оферты
type OfferLetterData struct {
	BuyerFIO         string
	PropertyName     string
	PropertyCost     string
	PurchaseTypeName string
	DeveloperName    string
	DeveloperAddress string
	DeveloperContact string
	OfferDate        string
	Files            TemplateFiles
}

type TemplateFiles struct {
	Logo  *File
	Stamp *File
	Sign  *File
}

type File struct {
	FileName    string
	ContentType string
	Body        []byte
}
