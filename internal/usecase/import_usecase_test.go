package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImportUC() (*ImportUseCase, *fakeProductRepo, *fakeFileRepo) {
	products := newFakeProductRepo()
	files := &fakeFileRepo{}
	return NewImportUC(products, files, nopLogger{}), products, files
}

func importAdmin() Identity {
	return Identity{UserID: 1, Role: domain.RoleAdmin}
}

func csvFile(rows ...string) *ImportReq {
	lines := append([]string{importHeader}, rows...)
	return &ImportReq{FileName: "products.csv", Data: []byte(strings.Join(lines, "\n"))}
}

func TestImportProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("partially valid file imports partially", func(t *testing.T) {
		uc, products, _ := newImportUC()

		report, err := uc.ImportProducts(ctx, importAdmin(), csvFile(
			"Paracetamol,Tablets,Analgesics,4.99,120,Medipharm,A1,2027-03-01",
			"Gloves,Latex pack,Consumables,12.50,40,SafeHands,B2,",
			"Broken,Missing category,,5.00,1,Acme,,",
			"Thermometer,Clinical,Devices,8.00,0,ThermoTech,,",
			"Bandage,Elastic,Consumables,2.25,,Mediwrap,C3,",
		))
		require.NoError(t, err)

		assert.Equal(t, 5, report.TotalRows)
		assert.Equal(t, 4, report.Inserted)
		assert.Equal(t, 1, report.Errors)
		require.Len(t, report.ErrorDetails, 1)
		assert.Equal(t, 3, report.ErrorDetails[0].Row)
		assert.Contains(t, report.ErrorDetails[0].Reason, "category")

		all, err := products.List(ctx, &ProductFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("defaults: stock zero, rack A1, no expiry", func(t *testing.T) {
		uc, products, _ := newImportUC()

		report, err := uc.ImportProducts(ctx, importAdmin(), csvFile(
			"Thermometer,Clinical,Devices,8.00,,ThermoTech,,",
		))
		require.NoError(t, err)
		require.Equal(t, 1, report.Inserted)

		all, _ := products.List(ctx, &ProductFilter{})
		require.Len(t, all, 1)
		assert.Equal(t, int64(0), all[0].Stock)
		assert.Equal(t, domain.DefaultRackNo, all[0].RackNo)
		assert.Nil(t, all[0].ExpiryDate)
		assert.Equal(t, int64(800), all[0].PriceCents)
	})

	t.Run("row validation reasons", func(t *testing.T) {
		cases := []struct {
			name   string
			row    string
			reason string
		}{
			{"missing name", ",Desc,Cat,1.00,1,Acme,,", "name is required"},
			{"bad price", "Item,Desc,Cat,cheap,1,Acme,,", "invalid price"},
			{"three decimal places", "Item,Desc,Cat,1.005,1,Acme,,", "invalid price"},
			{"negative stock", "Item,Desc,Cat,1.00,-1,Acme,,", "invalid stock"},
			{"bad expiry", "Item,Desc,Cat,1.00,1,Acme,,31-12-2027", "invalid expiry date"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				uc, _, _ := newImportUC()
				report, err := uc.ImportProducts(ctx, importAdmin(), csvFile(tc.row))
				require.NoError(t, err)
				assert.Equal(t, 0, report.Inserted)
				require.Len(t, report.ErrorDetails, 1)
				assert.Contains(t, report.ErrorDetails[0].Reason, tc.reason)
			})
		}
	})

	t.Run("insert failure keeps the original row number", func(t *testing.T) {
		uc, products, _ := newImportUC()
		products.failCreate = map[string]bool{"Gloves": true}

		report, err := uc.ImportProducts(ctx, importAdmin(), csvFile(
			"Paracetamol,Tablets,Analgesics,4.99,120,Medipharm,A1,",
			"Gloves,Latex pack,Consumables,12.50,40,SafeHands,B2,",
		))
		require.NoError(t, err)

		assert.Equal(t, 1, report.Inserted)
		require.Len(t, report.ErrorDetails, 1)
		assert.Equal(t, 2, report.ErrorDetails[0].Row)
		assert.Equal(t, "Gloves", report.ErrorDetails[0].Raw)
	})

	t.Run("error preview is capped", func(t *testing.T) {
		uc, _, _ := newImportUC()

		rows := make([]string, 0, 15)
		for i := 0; i < 15; i++ {
			rows = append(rows, fmt.Sprintf("Item %d,Desc,,1.00,1,Acme,,", i))
		}
		report, err := uc.ImportProducts(ctx, importAdmin(), csvFile(rows...))
		require.NoError(t, err)

		assert.Equal(t, 15, report.Errors)
		assert.Len(t, report.ErrorDetails, errorPreviewLimit)
	})

	t.Run("empty file", func(t *testing.T) {
		uc, _, _ := newImportUC()

		_, err := uc.ImportProducts(ctx, importAdmin(), &ImportReq{FileName: "empty.csv", Data: nil})
		assert.ErrorIs(t, err, e.ErrEmptyImportFile)

		// только заголовок, строк данных нет
		_, err = uc.ImportProducts(ctx, importAdmin(), csvFile())
		assert.ErrorIs(t, err, e.ErrEmptyImportFile)
	})

	t.Run("archives the original file", func(t *testing.T) {
		uc, _, files := newImportUC()

		_, err := uc.ImportProducts(ctx, importAdmin(), csvFile(
			"Paracetamol,Tablets,Analgesics,4.99,120,Medipharm,A1,",
		))
		require.NoError(t, err)

		require.Len(t, files.keys, 1)
		assert.True(t, strings.HasPrefix(files.keys[0], "imports/"))
		assert.True(t, strings.HasSuffix(files.keys[0], "-products.csv"))
	})

	t.Run("archive failure does not block the import", func(t *testing.T) {
		uc, _, files := newImportUC()
		files.err = fmt.Errorf("bucket unavailable")

		report, err := uc.ImportProducts(ctx, importAdmin(), csvFile(
			"Paracetamol,Tablets,Analgesics,4.99,120,Medipharm,A1,",
		))
		require.NoError(t, err)
		assert.Equal(t, 1, report.Inserted)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		uc, _, _ := newImportUC()
		_, err := uc.ImportProducts(ctx, Identity{UserID: 2, Role: domain.RoleUser}, csvFile())
		assert.ErrorIs(t, err, e.ErrNotAuthorized)
	})
}

func TestImportTemplate(t *testing.T) {
	uc, _, _ := newImportUC()
	tpl := string(uc.Template())

	lines := strings.Split(strings.TrimRight(tpl, "\n"), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, importHeader, lines[0])
	assert.Greater(t, len(lines), 1)
}
