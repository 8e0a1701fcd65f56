package views

import (
	"fmt"

	"shopeasy_storefront/internal/models"
)

// PageState est l'état de rendu de la page panier, par ordre de priorité.
type PageState int

const (
	PageSignIn PageState = iota
	PageLoading
	PageEmpty
	PageItems
)

func (s PageState) String() string {
	switch s {
	case PageSignIn:
		return "sign-in"
	case PageLoading:
		return "loading"
	case PageEmpty:
		return "empty"
	default:
		return "items"
	}
}

type CartLine struct {
	Item     models.CartItem
	Subtotal string
}

func (l CartLine) UnitPrice() string { return FormatMoney(l.Item.Product.Price) }

// CanDecrement : sur la page panier « − » est désactivé à 1, la suppression
// passe par le bouton dédié.
func (l CartLine) CanDecrement() bool { return l.Item.Quantity > 1 }
func (l CartLine) CanIncrement() bool { return l.Item.Quantity < l.Item.Product.StockQuantity }
func (l CartLine) IncrementQuantity() int { return l.Item.Quantity + 1 }
func (l CartLine) DecrementQuantity() int { return l.Item.Quantity - 1 }

type CartPage struct {
	State   PageState
	User    *models.User
	Lines   []CartLine
	Summary OrderSummary
	// Unavailable : aucune lecture du panier n'a abouti, la page vide est
	// affichée en mode dégradé.
	Unavailable bool
}

// NewCartPage évalue l'état de la page : non connecté, chargement, vide,
// puis liste des lignes avec récapitulatif. Un chargement initial en échec
// donne la page vide dégradée plutôt qu'un chargement sans fin.
func NewCartPage(user *models.User, snap models.CartSnapshot) CartPage {
	page := CartPage{User: user}
	switch {
	case !user.SignedIn():
		page.State = PageSignIn
		return page
	case snap.Loading || (!snap.Loaded && snap.Err == ""):
		page.State = PageLoading
		return page
	case len(snap.Items) == 0:
		page.State = PageEmpty
		page.Unavailable = !snap.Loaded
		return page
	}

	page.State = PageItems
	summary := make([]SummaryLine, 0, len(snap.Items))
	for _, item := range snap.Items {
		total := item.LineTotal()
		page.Lines = append(page.Lines, CartLine{Item: item, Subtotal: FormatMoney(total)})
		summary = append(summary, SummaryLine{Name: item.Product.Name, Quantity: item.Quantity, Total: total})
	}
	page.Summary = Summarize(summary)
	return page
}

func (p CartPage) IsSignIn() bool  { return p.State == PageSignIn }
func (p CartPage) IsLoading() bool { return p.State == PageLoading }
func (p CartPage) IsEmpty() bool   { return p.State == PageEmpty }
func (p CartPage) IsItems() bool   { return p.State == PageItems }

// CountLabel : « 1 item in your cart », « 3 items in your cart ».
func (p CartPage) CountLabel() string {
	n := len(p.Lines)
	if n == 1 {
		return "1 item in your cart"
	}
	return fmt.Sprintf("%d items in your cart", n)
}
