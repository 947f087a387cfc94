package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tiredepot/internal/common"
	"tiredepot/internal/server/models"
	"tiredepot/internal/server/services"
)

const dateLayout = "2006-01-02"

// depositRequest is the JSON body for creating or editing a deposit.
// Dates that are calendar days (expected return, storage) travel as
// "YYYY-MM-DD" strings.
type depositRequest struct {
	ClientID           string          `json:"client_id,omitempty"`
	CarModel           string          `json:"car_model"`
	RegistrationNumber string          `json:"registration_number"`
	TireBrand          string          `json:"tire_brand"`
	TireSize           string          `json:"tire_size"`
	Quantity           int             `json:"quantity"`
	Location           string          `json:"location"`
	Washing            bool            `json:"washing"`
	Conservation       bool            `json:"conservation"`
	Season             string          `json:"season"`
	ExpectedReturnDate string          `json:"expected_return_date,omitempty"`
	TechnicalCondition string          `json:"technical_condition"`
	StorageDate        string          `json:"storage_date,omitempty"`
	Price              decimal.Decimal `json:"price"`
}

func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", common.ErrValidation, field)
	}
	return &t, nil
}

func (r *depositRequest) toCreateParams() (services.CreateDepositParams, error) {
	expected, err := parseDate("expected_return_date", r.ExpectedReturnDate)
	if err != nil {
		return services.CreateDepositParams{}, err
	}
	storage, err := parseDate("storage_date", r.StorageDate)
	if err != nil {
		return services.CreateDepositParams{}, err
	}
	return services.CreateDepositParams{
		ClientID:           r.ClientID,
		CarModel:           r.CarModel,
		RegistrationNumber: r.RegistrationNumber,
		TireBrand:          r.TireBrand,
		TireSize:           r.TireSize,
		Quantity:           r.Quantity,
		Location:           r.Location,
		Washing:            r.Washing,
		Conservation:       r.Conservation,
		Season:             r.Season,
		ExpectedReturnDate: expected,
		TechnicalCondition: r.TechnicalCondition,
		StorageDate:        storage,
		Price:              r.Price,
	}, nil
}

func (r *depositRequest) toEditParams() (services.EditDepositParams, error) {
	expected, err := parseDate("expected_return_date", r.ExpectedReturnDate)
	if err != nil {
		return services.EditDepositParams{}, err
	}
	storage, err := parseDate("storage_date", r.StorageDate)
	if err != nil {
		return services.EditDepositParams{}, err
	}
	return services.EditDepositParams{
		CarModel:           r.CarModel,
		RegistrationNumber: r.RegistrationNumber,
		TireBrand:          r.TireBrand,
		TireSize:           r.TireSize,
		Quantity:           r.Quantity,
		Location:           r.Location,
		Washing:            r.Washing,
		Conservation:       r.Conservation,
		Season:             r.Season,
		ExpectedReturnDate: expected,
		TechnicalCondition: r.TechnicalCondition,
		StorageDate:        storage,
		Price:              r.Price,
	}, nil
}

// depositResponse is the JSON shape of one deposit. Overdue fields are
// derived per response, never stored.
type depositResponse struct {
	ID                 string          `json:"id"`
	ClientID           string          `json:"client_id"`
	ClientName         string          `json:"client_name,omitempty"`
	CarModel           string          `json:"car_model"`
	RegistrationNumber string          `json:"registration_number"`
	TireBrand          string          `json:"tire_brand"`
	TireSize           string          `json:"tire_size"`
	Quantity           int             `json:"quantity"`
	Location           string          `json:"location"`
	Washing            bool            `json:"washing"`
	Conservation       bool            `json:"conservation"`
	DepositDate        time.Time       `json:"deposit_date"`
	IssueDate          *time.Time      `json:"issue_date,omitempty"`
	Status             models.Status   `json:"status"`
	Duration           int             `json:"duration"`
	Season             string          `json:"season"`
	ExpectedReturnDate string          `json:"expected_return_date,omitempty"`
	TechnicalCondition string          `json:"technical_condition"`
	StorageDate        string          `json:"storage_date,omitempty"`
	Price              decimal.Decimal `json:"price"`
	Overdue            bool            `json:"overdue"`
	OverdueDays        int             `json:"overdue_days"`
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func toDepositResponse(d *models.Deposit, now time.Time) depositResponse {
	return depositResponse{
		ID:                 d.ID,
		ClientID:           d.ClientID,
		CarModel:           d.CarModel,
		RegistrationNumber: d.RegistrationNumber,
		TireBrand:          d.TireBrand,
		TireSize:           d.TireSize,
		Quantity:           d.Quantity,
		Location:           d.Location,
		Washing:            d.Washing,
		Conservation:       d.Conservation,
		DepositDate:        d.DepositDate,
		IssueDate:          d.IssueDate,
		Status:             d.Status,
		Duration:           d.Duration,
		Season:             d.Season,
		ExpectedReturnDate: formatDate(d.ExpectedReturnDate),
		TechnicalCondition: d.TechnicalCondition,
		StorageDate:        formatDate(d.StorageDate),
		Price:              d.Price,
		Overdue:            d.IsOverdue(now),
		OverdueDays:        d.OverdueDays(now),
	}
}

func toDepositWithClientResponse(d *models.DepositWithClient, now time.Time) depositResponse {
	resp := toDepositResponse(&d.Deposit, now)
	resp.ClientName = d.ClientName
	return resp
}

// clientRequest is the JSON body for creating or editing a client.
type clientRequest struct {
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Email    string  `json:"email"`
	Notes    string  `json:"notes"`
	Discount float64 `json:"discount"`
}

func (r *clientRequest) toParams() services.ClientParams {
	return services.ClientParams{
		Name:     r.Name,
		Phone:    r.Phone,
		Email:    r.Email,
		Notes:    r.Notes,
		Discount: r.Discount,
	}
}

type clientResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Email    string  `json:"email"`
	Notes    string  `json:"notes"`
	Discount float64 `json:"discount"`
	Barcode  string  `json:"barcode,omitempty"`
}

func toClientResponse(c *models.Client) clientResponse {
	resp := clientResponse{
		ID:       c.ID,
		Name:     c.Name,
		Phone:    c.Phone,
		Email:    c.Email,
		Notes:    c.Notes,
		Discount: c.Discount,
	}
	if c.Barcode != nil {
		resp.Barcode = *c.Barcode
	}
	return resp
}

type historyResponse struct {
	ID          string    `json:"id"`
	DepositID   string    `json:"deposit_id"`
	ChangeDate  time.Time `json:"change_date"`
	Actor       string    `json:"actor"`
	Description string    `json:"description"`
}

func toHistoryResponse(e *models.HistoryEntry) historyResponse {
	return historyResponse{
		ID:          e.ID,
		DepositID:   e.DepositID,
		ChangeDate:  e.ChangeDate,
		Actor:       e.Actor,
		Description: e.Description,
	}
}

type statsResponse struct {
	ActiveCount  int             `json:"active_count"`
	IssuedCount  int             `json:"issued_count"`
	OverdueCount int             `json:"overdue_count"`
	ActiveValue  decimal.Decimal `json:"active_value"`
}
