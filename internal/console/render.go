package console

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/vyrodovalexey/restadmin/internal/model"
	"github.com/vyrodovalexey/restadmin/internal/store"
)

// noProducts is printed for an empty product list.
const noProducts = "No products available"

// newTable creates an aligned table writer.
// Remember to call Flush() when done writing.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderProducts prints the product list.
func renderProducts(w io.Writer, state store.State[model.Product]) error {
	if len(state.Items) == 0 {
		_, err := fmt.Fprintln(w, noProducts)
		return err
	}

	t := newTable(w)
	_, _ = fmt.Fprintln(t, "ID\tTITLE\tPRICE\tIMAGE")
	for _, p := range state.Items {
		_, _ = fmt.Fprintf(t, "%d\t%s\t%s\t%s\n", p.ID, p.Title, formatPrice(p.Price), p.Images)
	}
	return t.Flush()
}

// renderUsers prints one page of users. Row numbers continue across pages.
func renderUsers(w io.Writer, state store.PageState[model.User]) error {
	t := newTable(w)
	_, _ = fmt.Fprintln(t, "#\tID\tFIRST NAME\tLAST NAME\tEMAIL\tUSERNAME\tPHONE")
	offset := state.Offset()
	for i, u := range state.Items {
		_, _ = fmt.Fprintf(t, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			offset+i+1, u.ID, u.FirstName, u.LastName, u.Email, u.Username, u.Phone)
	}
	if err := t.Flush(); err != nil {
		return err
	}

	footer := fmt.Sprintf("page %d of %d (total %d)", state.Page, max(state.Pages(), 1), state.Total)
	if state.HasPrev() {
		footer += fmt.Sprintf("  prev: --page %d", min(state.Page-1, max(state.Pages(), 1)))
	}
	if state.HasNext() {
		footer += fmt.Sprintf("  next: --page %d", state.Page+1)
	}
	_, err := fmt.Fprintln(w, footer)
	return err
}

// formatPrice renders a price without trailing zeros.
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
