package report

import (
	"context"
	"strings"
)

// RenderHTML renders the dashboard page into a string.
func RenderHTML(ctx context.Context, page Page) (string, error) {
	var builder strings.Builder
	if err := DashboardPage(page).Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}
