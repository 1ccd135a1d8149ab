package cli

import (
	"encoding/base64"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/vignaraja/internal/client/models"
	"github.com/dustin/go-humanize"
)

func paidLabel(paid bool) string {
	if paid {
		return "Paid"
	}
	return "Pending"
}

// renderMembers prints the member table. The admin also sees phone numbers.
func (a *App) renderMembers(list []models.Member) {
	admin := a.isAdmin()

	a.outMu.Lock()
	defer a.outMu.Unlock()

	fmt.Fprintf(a.out, "Members (%d):\n", len(list))
	if len(list) == 0 {
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, m := range list {
		joined := time.UnixMilli(m.RegisteredAt).Format(time.DateOnly)
		if admin {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", m.Name, m.Phone, paidLabel(m.Paid), joined)
		} else {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", m.Name, paidLabel(m.Paid), joined)
		}
	}
	tw.Flush()
}

func formatAmount(v float64) string {
	return "₹" + humanize.Commaf(v)
}

func (a *App) renderVault(total float64) {
	a.printf("Vault: %s\n", formatAmount(total))
}

func (a *App) renderGallery(list []models.GalleryImage) {
	a.printf("Gallery: %d image(s)\n", len(list))
}

func (a *App) renderImages(list []models.GalleryImage) {
	a.outMu.Lock()
	defer a.outMu.Unlock()

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No images")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, img := range list {
		fmt.Fprintf(tw, "  %s\t%s\n", img.Key, describeImage(img.Data))
	}
	tw.Flush()
}

// describeImage summarizes a data URL as "<mime>, <size>".
func describeImage(dataURL string) string {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(dataURL, "data:"), ",")
	if !ok {
		return humanize.Bytes(uint64(len(dataURL)))
	}
	mimeType, _, _ := strings.Cut(meta, ";")
	size := base64.StdEncoding.DecodedLen(len(payload))
	if n, err := base64.StdEncoding.DecodeString(payload); err == nil {
		size = len(n)
	}
	if mimeType == "" {
		mimeType = "unknown"
	}
	return fmt.Sprintf("%s, %s", mimeType, humanize.Bytes(uint64(size)))
}
