package marketplace

import (
	"bytes"
	"encoding/json"
)

// Credentials are the login details for one marketplace account.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProductResponse is the body of a product detail fetch.
type ProductResponse struct {
	Product *Product `json:"Product"`
}

// Product is the marketplace product shape shared by search and detail responses.
type Product struct {
	UUID        string      `json:"id"`
	PID         looseString `json:"pid"`
	StyleID     string      `json:"styleId"`
	URLKey      string      `json:"urlKey"`
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Gender      string      `json:"gender"`
	ColorWay    string      `json:"colorway"`
	RetailPrice looseString `json:"retailPrice"`
	ReleaseDate string      `json:"releaseDate"`
	Variants    []Variant   `json:"variants,omitempty"`
}

// Variant is one size of a product.
type Variant struct {
	Size   string  `json:"size"`
	Market *Market `json:"market"`
}

// Market is the per-size market block. Absent numbers decode as zero.
type Market struct {
	LowestAsk        float64 `json:"lowestAsk"`
	HighestBid       float64 `json:"highestBid"`
	AnnualHigh       float64 `json:"annualHigh"`
	AnnualLow        float64 `json:"annualLow"`
	Volatility       float64 `json:"volatility"`
	SalesLast72Hours int64   `json:"salesLast72Hours"`
	NumberOfAsks     int64   `json:"numberOfAsks"`
	NumberOfBids     int64   `json:"numberOfBids"`
}

type searchResponse struct {
	Products []Product `json:"Products"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// looseString accepts a JSON string, number or null.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}
	*s = looseString(data)
	return nil
}
