package bankapi

import (
	"context"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

func cardsPath(accountID string) string {
	return "/accounts/" + url.PathEscape(accountID) + "/cards"
}

// ListCards returns the cards attached to an account.
func (c *Client) ListCards(ctx context.Context, accountID, token string) ([]Card, error) {
	var cards []Card
	if err := c.do(ctx, fiber.MethodGet, cardsPath(accountID), token, nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// GetCard fetches one card. The backend serves it without a token.
func (c *Client) GetCard(ctx context.Context, accountID, cardID string) (Card, error) {
	var card Card
	if err := c.do(ctx, fiber.MethodGet, cardsPath(accountID)+"/"+url.PathEscape(cardID), "", nil, &card); err != nil {
		return Card{}, err
	}
	return card, nil
}

// DeleteCard removes a card.
func (c *Client) DeleteCard(ctx context.Context, accountID, cardID, token string) error {
	return c.do(ctx, fiber.MethodDelete, cardsPath(accountID)+"/"+url.PathEscape(cardID), token, nil, nil)
}

// CreateCard attaches a new card to an account.
func (c *Client) CreateCard(ctx context.Context, accountID string, card NewCard, token string) (Card, error) {
	if err := validatePayload("card", card); err != nil {
		return Card{}, err
	}
	var created Card
	if err := c.do(ctx, fiber.MethodPost, cardsPath(accountID), token, card, &created); err != nil {
		return Card{}, err
	}
	return created, nil
}
