package cart

import "errors"

var (
	ErrOutOfStock = errors.New("cart: product out of stock")
	// ErrAlreadyInCart : AddToCart ne crée qu'une ligne, l'incrément passe
	// par UpdateQuantity.
	ErrAlreadyInCart = errors.New("cart: product already in cart")
	ErrNotInCart     = errors.New("cart: product not in cart")
	ErrNoUser        = errors.New("cart: no signed-in user")
)
