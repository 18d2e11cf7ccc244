package loanapimodels

import "github.com/pkg/errors"

type ConditionPrecedentData struct {
	Name string `json:"name"`
}

func (r ConditionPrecedentData) Validate() error {
	if r.Name == "" {
		return errors.New("не указано наименование условия")
	}
	return nil
}
