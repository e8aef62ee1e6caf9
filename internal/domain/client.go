package domain

import "time"

type Client struct {
	ID        int
	Name      string
	Email     string
	Phone     *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
