package xlsexport

import (
	"bytes"
	dbmodels "estate-finance-backend/models/db"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportRepaymentSchedule(list []dbmodels.LoanRepayment) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var repaymentHeaders = []string{"№ платежа", "Сумма", "Срок оплаты", "Статус", "Дата оплаты"}

// ExportRepaymentSchedule выгружает график платежей по заявке в xlsx
func (i impl) ExportRepaymentSchedule(list []dbmodels.LoanRepayment) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, repaymentHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writeRepaymentData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "График платежей")
	return f.WriteToBuffer()
}

func writeRepaymentData(f *excelize.File, sheet string, list []dbmodels.LoanRepayment, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(repaymentHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "№ платежа"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.Seq); err != nil {
			return row, err
		}

		// "Сумма"
		col++
		if err := writeColumn(f, sheet, col, row, fmt.Sprintf("%.2f", item.Amount)); err != nil {
			return row, err
		}

		// "Срок оплаты"
		col++
		if !item.DueDate.IsZero() {
			if err := writeColumn(f, sheet, col, row, item.DueDate.Format("02.01.2006")); err != nil {
				return row, err
			}
		}

		// "Статус"
		col++
		if err := writeColumn(f, sheet, col, row, string(item.Status)); err != nil {
			return row, err
		}

		// "Дата оплаты"
		col++
		if item.PaidAt != nil {
			if err := writeColumn(f, sheet, col, row, item.PaidAt.Format("02.01.2006")); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}
