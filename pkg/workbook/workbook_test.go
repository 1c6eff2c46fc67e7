package workbook

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/adinsights/pkg/derive"
	"github.com/yurifrl/adinsights/pkg/models"
	"github.com/yurifrl/adinsights/pkg/pipeline"
	"github.com/yurifrl/adinsights/pkg/testutil"
)

func run(t *testing.T) *pipeline.Result {
	t.Helper()
	result, err := pipeline.New(log.Default()).Run(testutil.FS(), pipeline.DefaultOptions())
	require.NoError(t, err)
	return result
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(run(t), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Equal(t, SummarySheet, sheets[0])
	assert.Len(t, sheets, 1+len(models.SourceKeys)+2)
	for _, key := range models.SourceKeys {
		assert.Contains(t, sheets, string(key))
	}

	rows, err := f.GetRows(string(models.Campanhas))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, models.ColCampaign, rows[0][0])
	assert.Contains(t, rows[0], derive.ColCPALabel)
	assert.Equal(t, "Pesquisa Marca", rows[1][0])
	assert.Equal(t, "1234.56", rows[1][1])

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, "R$ 3.734,56", summary[1][2])

	insights, err := f.GetRows(InsightsSheet)
	require.NoError(t, err)
	assert.Len(t, insights, 6)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, Save(run(t), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(RecommendationsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}
