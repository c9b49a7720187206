package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/DRSN-tech/medstore-backend/pkg/logger"
	"github.com/DRSN-tech/medstore-backend/pkg/money"
	"github.com/google/uuid"
)

const (
	// errorPreviewLimit — сколько ошибок строк попадает в ответ.
	errorPreviewLimit = 10

	expiryLayout = "2006-01-02"

	importHeader = "name,description,category,price,stock,manufacturer,rack,expiry"
)

// importTemplate — шаблон файла импорта: заголовок и три строки-примера.
var importTemplate = strings.Join([]string{
	importHeader,
	"Paracetamol 500mg,Analgesic and antipyretic tablets,Analgesics,4.99,120,Medipharm,A1,2027-03-01",
	"Surgical Gloves L,Sterile latex gloves pack of 100,Consumables,12.50,40,SafeHands,B2,2026-11-15",
	"Digital Thermometer,Fast-read clinical thermometer,Devices,8.00,0,ThermoTech,C3,",
	"",
}, "\n")

// ImportUseCase реализует пакетный импорт товаров из табличного файла.
type ImportUseCase struct {
	productRepo ProductRepository
	fileRepo    ImportFileRepository
	logger      logger.Logger
}

func NewImportUC(productRepo ProductRepository, fileRepo ImportFileRepository, logger logger.Logger) *ImportUseCase {
	return &ImportUseCase{
		productRepo: productRepo,
		fileRepo:    fileRepo,
		logger:      logger,
	}
}

// Template возвращает содержимое шаблона CSV для скачивания.
func (i *ImportUseCase) Template() []byte {
	return []byte(importTemplate)
}

// ImportProducts разбирает CSV и вставляет валидные строки.
//
// Ошибка одной строки (отсутствующее поле, кривое число, неудачная вставка)
// заносится в отчёт и не прерывает остальные: частично валидный файл
// импортируется частично. Исходный файл архивируется в объектное
// хранилище best-effort.
func (i *ImportUseCase) ImportProducts(ctx context.Context, caller Identity, req *ImportReq) (*ImportReport, error) {
	const op = "ImportUseCase.ImportProducts"

	if err := Allow(caller, ActionManageCatalog, 0); err != nil {
		return nil, e.Wrap(op, err)
	}

	i.archive(ctx, op, req)

	reader := csv.NewReader(bytes.NewReader(req.Data))
	reader.FieldsPerRecord = -1 // рваные строки разбираем сами

	// заголовок
	if _, err := reader.Read(); err != nil {
		return nil, e.Wrap(op, e.ErrEmptyImportFile)
	}

	type importRow struct {
		row     int
		product *domain.Product
	}

	report := &ImportReport{}
	var valid []importRow

	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			report.TotalRows = row - 1
			break
		}
		if err != nil {
			report.addError(row, "", err.Error())
			continue
		}

		product, reason := parseImportRow(record)
		if reason != "" {
			report.addError(row, strings.Join(record, ","), reason)
			continue
		}

		valid = append(valid, importRow{row: row, product: product})
	}

	if report.TotalRows == 0 {
		return nil, e.Wrap(op, e.ErrEmptyImportFile)
	}

	// построчная вставка: одна неудачная строка не валит остальные
	for _, v := range valid {
		if _, err := i.productRepo.Create(ctx, v.product); err != nil {
			i.logger.Warnf("Import insert failed for %q: %v", v.product.Name, e.Wrap(op, err))
			report.addError(v.row, v.product.Name, "insert failed")
			continue
		}
		report.Inserted++
	}

	return report, nil
}

// archive сохраняет исходный файл импорта в хранилище для аудита.
func (i *ImportUseCase) archive(ctx context.Context, op string, req *ImportReq) {
	key := fmt.Sprintf("imports/%s/%s-%s", time.Now().UTC().Format("2006-01-02"), uuid.NewString(), req.FileName)
	if _, err := i.fileRepo.Archive(ctx, key, req.Data, "text/csv"); err != nil {
		i.logger.Warnf("Failed to archive import file: %v", e.Wrap(op, err))
	}
}

func (r *ImportReport) addError(row int, raw, reason string) {
	r.Errors++
	if len(r.ErrorDetails) < errorPreviewLimit {
		r.ErrorDetails = append(r.ErrorDetails, RowError{Row: row, Raw: raw, Reason: reason})
	}
}

// parseImportRow валидирует одну строку данных.
// Колонки: name, description, category, price, stock, manufacturer, rack, expiry.
// Обязательны name, description, category, price, manufacturer;
// stock по умолчанию 0, rack — стандартный код, expiry опционален.
func parseImportRow(record []string) (*domain.Product, string) {
	field := func(idx int) string {
		if idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	var (
		name         = field(0)
		description  = field(1)
		category     = field(2)
		priceStr     = field(3)
		stockStr     = field(4)
		manufacturer = field(5)
		rackNo       = field(6)
		expiryStr    = field(7)
	)

	switch "" {
	case name:
		return nil, "name is required"
	case description:
		return nil, "description is required"
	case category:
		return nil, "category is required"
	case priceStr:
		return nil, "price is required"
	case manufacturer:
		return nil, "manufacturer is required"
	}

	priceCents, err := money.ParseCents(priceStr)
	if err != nil {
		return nil, "invalid price: " + priceStr
	}

	var stock int64
	if stockStr != "" {
		stock, err = strconv.ParseInt(stockStr, 10, 64)
		if err != nil || stock < 0 {
			return nil, "invalid stock: " + stockStr
		}
	}

	if rackNo == "" {
		rackNo = domain.DefaultRackNo
	}

	var expiry *time.Time
	if expiryStr != "" {
		t, err := time.Parse(expiryLayout, expiryStr)
		if err != nil {
			return nil, "invalid expiry date: " + expiryStr
		}
		expiry = &t
	}

	return &domain.Product{
		Name:         name,
		Description:  description,
		Category:     category,
		PriceCents:   priceCents,
		Stock:        stock,
		Manufacturer: manufacturer,
		RackNo:       rackNo,
		ExpiryDate:   expiry,
	}, ""
}
