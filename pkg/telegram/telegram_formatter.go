package telegram

import (
	"fmt"
	"strings"
	"time"

	"stock-tracker/internal/tracker/dto"
	"stock-tracker/pkg/utils"
)

// maxFailureLines caps the per-ticker failure listing so a bad provider day
// does not produce a message over the Telegram length limit.
const maxFailureLines = 10

// FormatUpdateReport formats an update pass result into a Markdown string for Telegram.
func FormatUpdateReport(result *dto.UpdateResult, triggeredBy string) string {
	var builder strings.Builder

	builder.WriteString("📈 *Price Update Report*\n\n")
	builder.WriteString(fmt.Sprintf("✅ Updated: %d\n", result.Updated))
	builder.WriteString(fmt.Sprintf("⏭ Skipped: %d\n", result.Skipped))
	builder.WriteString(fmt.Sprintf("❌ Failed: %d\n", result.Failed))

	if result.Failed > 0 {
		builder.WriteString("\n*Failures:*\n")
		listed := 0
		for _, detail := range result.Details {
			if detail.Status != dto.StatusFailed {
				continue
			}
			if listed == maxFailureLines {
				builder.WriteString(fmt.Sprintf("  ... and %d more\n", result.Failed-listed))
				break
			}
			builder.WriteString(fmt.Sprintf("  - `%s`: %s\n", detail.Ticker, detail.Error))
			listed++
		}
	}

	builder.WriteString(fmt.Sprintf("\n🔁 Trigger: %s\n", triggeredBy))
	builder.WriteString(fmt.Sprintf("🕒 %s\n", utils.PrettyDate(time.Now())))
	return builder.String()
}

// FormatBackfillReport formats a backfill pass result into a Markdown string for Telegram.
func FormatBackfillReport(result *dto.BackfillResult, triggeredBy string) string {
	var builder strings.Builder

	builder.WriteString("🗂 *History Backfill Report*\n\n")
	builder.WriteString(fmt.Sprintf("✅ Inserted: %d rows\n", result.Inserted))
	builder.WriteString(fmt.Sprintf("⏭ Skipped: %d rows\n", result.Skipped))
	builder.WriteString(fmt.Sprintf("❌ Failed: %d tickers\n", result.Failed))

	if result.Failed > 0 {
		builder.WriteString("\n*Failures:*\n")
		listed := 0
		for _, detail := range result.Details {
			if detail.Status != dto.StatusFailed {
				continue
			}
			if listed == maxFailureLines {
				builder.WriteString(fmt.Sprintf("  ... and %d more\n", result.Failed-listed))
				break
			}
			builder.WriteString(fmt.Sprintf("  - `%s`: %s\n", detail.Ticker, detail.Error))
			listed++
		}
	}

	builder.WriteString(fmt.Sprintf("\n🔁 Trigger: %s\n", triggeredBy))
	builder.WriteString(fmt.Sprintf("🕒 %s\n", utils.PrettyDate(time.Now())))
	return builder.String()
}

// FormatErrorAlert formats a failed run into a Markdown alert for Telegram.
func FormatErrorAlert(t time.Time, operation string, err error) string {
	return fmt.Sprintf(`📛 *[ERROR ALERT]*
%s
🔧 %s
⚠️ %s
`, utils.PrettyDate(t), operation, err.Error())
}
