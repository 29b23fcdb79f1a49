package logconv

import (
	"fmt"
	"io"
	"time"

	api "github.com/djjrip/ggloop-bots/lib-ggbot"
	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"
)

// MaxXlsxRows is the maximum number of records in a sheet.
const MaxXlsxRows = 100000

const sheet = "log"

var levelColors = map[api.Level]string{
	api.LevelDebug:    "C0C0C0",
	api.LevelInfo:     "89C923",
	api.LevelWarn:     "DDA100",
	api.LevelError:    "FF2D00",
	api.LevelCritical: "8B0000",
}

func excelPos(x, y int) string {
	pos, err := excelize.CoordinatesToCellName(x+1, y+1)
	if err != nil {
		panic(err)
	}
	return pos
}

func ToXlsx(w io.Writer, s Scanner, createdAt time.Time) error {
	xlsx := excelize.NewFile()
	defer xlsx.Close()

	if err := xlsx.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	xlsx.SetAppProps(&excelize.AppProperties{
		Application: "ggbot",
	})
	xlsx.SetDocProps(&excelize.DocProperties{
		Created:        createdAt.Format(time.RFC3339),
		Modified:       createdAt.Format(time.RFC3339),
		Creator:        "ggbot",
		LastModifiedBy: "ggbot",
	})

	zone, _ := createdAt.Zone()
	for i, h := range []string{fmt.Sprintf("time (%s)", zone), "level", "scope", "run", "message"} {
		xlsx.SetCellStr(sheet, excelPos(i, 0), h)
	}

	styles := make(map[api.Level]int)
	dateStyles := make(map[api.Level]int)
	datefmt := "yyyy-mm-dd hh:mm:ss"
	for level, color := range levelColors {
		border := []excelize.Border{{Type: "bottom", Style: 1, Color: color}}
		styles[level], _ = xlsx.NewStyle(&excelize.Style{Border: border})
		dateStyles[level], _ = xlsx.NewStyle(&excelize.Style{Border: border, CustomNumFmt: &datefmt})
	}

	var extras []map[string]interface{}
	keys := make(map[string]bool)

	row := 0
	for s.Scan() {
		row++
		if row > MaxXlsxRows {
			break
		}

		r := s.Record()

		xlsx.SetCellValue(sheet, excelPos(0, row), r.Time.In(createdAt.Location()))
		xlsx.SetCellStr(sheet, excelPos(1, row), r.Level.String())
		xlsx.SetCellStr(sheet, excelPos(2, row), r.Scope)
		xlsx.SetCellStr(sheet, excelPos(3, row), r.Run)
		xlsx.SetCellStr(sheet, excelPos(4, row), r.Message)

		xlsx.SetCellStyle(sheet, excelPos(0, row), excelPos(0, row), dateStyles[r.Level])
		xlsx.SetCellStyle(sheet, excelPos(1, row), excelPos(4, row), styles[r.Level])

		extras = append(extras, r.Extra)
		for k := range r.Extra {
			keys[k] = true
		}
	}

	merged := make(map[string]interface{}, len(keys))
	for k := range keys {
		merged[k] = nil
	}
	extraCols := extraKeys(merged)

	for col, k := range extraCols {
		xlsx.SetCellStr(sheet, excelPos(5+col, 0), k)
	}

	for i, extra := range extras {
		for col, k := range extraCols {
			raw, ok := extra[k]
			if !ok {
				continue
			}

			pos := excelPos(5+col, 1+i)
			switch v := raw.(type) {
			case string, bool, int, int64:
				xlsx.SetCellValue(sheet, pos, v)
			case float64:
				xlsx.SetCellFloat(sheet, pos, v, -1, 64)
			default:
				if b, err := json.Marshal(v); err == nil {
					xlsx.SetCellStr(sheet, pos, string(b))
				}
			}
		}
	}

	if err := xlsx.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	xlsx.SetColWidth(sheet, "A", "A", 20)
	xlsx.SetColWidth(sheet, "C", "C", 20)
	xlsx.SetColWidth(sheet, "E", "E", 50)

	if err := xlsx.AutoFilter(sheet, "A1:"+excelPos(4+len(extraCols), 0), nil); err != nil {
		return err
	}

	return xlsx.Write(w)
}
