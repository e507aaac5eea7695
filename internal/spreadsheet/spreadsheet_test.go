package spreadsheet_test

import (
	"path/filepath"
	"testing"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/spreadsheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook creates an .xlsx file with the given rows, first row
// being the header.
func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()
	sheetName := file.GetSheetName(0)

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, file.SetCellValue(sheetName, cell, value))
		}
	}

	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, file.SaveAs(path))
	return path
}

func TestRead(t *testing.T) {
	t.Run("chinese headers", func(t *testing.T) {
		path := writeWorkbook(t, [][]string{
			{"序号", "城市", "景点"},
			{"1", "南京", "先锋书店"},
			{"2", "北京", "故宫"},
		})

		rows, err := spreadsheet.Read(path)

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, models.Row{City: "南京", Venue: "先锋书店"}, rows[0])
		assert.Equal(t, models.Row{City: "北京", Venue: "故宫"}, rows[1])
	})

	t.Run("english headers", func(t *testing.T) {
		path := writeWorkbook(t, [][]string{
			{"Venue Name", "City"},
			{"Forbidden City", "Beijing"},
		})

		rows, err := spreadsheet.Read(path)

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, models.Row{City: "Beijing", Venue: "Forbidden City"}, rows[0])
	})

	t.Run("positional fallback", func(t *testing.T) {
		path := writeWorkbook(t, [][]string{
			{"col_a", "col_b"},
			{"上海", "外滩"},
		})

		rows, err := spreadsheet.Read(path)

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, models.Row{City: "上海", Venue: "外滩"}, rows[0])
	})

	t.Run("skips blank lines", func(t *testing.T) {
		path := writeWorkbook(t, [][]string{
			{"城市", "地点"},
			{"南京", "先锋书店"},
			{"", ""},
			{"成都", "宽窄巷子"},
		})

		rows, err := spreadsheet.Read(path)

		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("single unidentifiable column", func(t *testing.T) {
		path := writeWorkbook(t, [][]string{
			{"whatever"},
			{"南京"},
		})

		_, err := spreadsheet.Read(path)

		require.Error(t, err)
		assert.ErrorIs(t, err, spreadsheet.ErrNoColumns)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := spreadsheet.Read(filepath.Join(t.TempDir(), "nope.xlsx"))
		require.Error(t, err)
	})
}

func TestWrite(t *testing.T) {
	t.Run("five columns verbatim", func(t *testing.T) {
		rows := []models.Row{
			{City: "南京", Venue: "先锋书店"},
			{City: "上海", Venue: "不存在的店"},
		}
		results := models.BatchResult{
			{
				Address:   "先锋书店, 江苏省南京市鼓楼区广州路173号",
				DirectURL: "https://www.google.com/maps/search/?api=1&query=32.06%2C118.79",
				EmbedURL:  "https://www.google.com/maps/embed/v1/place?key=k&q=32.06%2C118.79",
				Point:     &models.Coordinates{Lat: 32.06, Lng: 118.79},
			},
			{}, // unresolved row keeps its place with empty values
		}

		path := filepath.Join(t.TempDir(), "out.xlsx")
		require.NoError(t, spreadsheet.Write(path, rows, results))

		file, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer file.Close()

		got, err := file.GetRows(file.GetSheetName(0))
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, []string{"city", "venue", "address", "google_direct_url", "google_embed_url"}, got[0])
		assert.Equal(t, "南京", got[1][0])
		assert.Equal(t, "先锋书店", got[1][1])
		assert.Equal(t, "先锋书店, 江苏省南京市鼓楼区广州路173号", got[1][2])
		assert.Contains(t, got[1][3], "maps/search")
		assert.Contains(t, got[1][4], "maps/embed")

		// Unresolved row: city and venue present, the rest empty.
		assert.Equal(t, "上海", got[2][0])
		assert.Equal(t, "不存在的店", got[2][1])
		for _, cell := range got[2][2:] {
			assert.Empty(t, cell, "unresolved cells should be empty")
		}
	})

	t.Run("row count mismatch", func(t *testing.T) {
		err := spreadsheet.Write(
			filepath.Join(t.TempDir(), "out.xlsx"),
			[]models.Row{{City: "南京", Venue: "先锋书店"}},
			models.BatchResult{},
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, spreadsheet.ErrRowMismatch)
	})
}
