package customer

import "pizzeria/domain/customer"

func (r CustomerRequest) toProfile() customer.Profile {
	return customer.Profile{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		ZipCode: r.ZipCode,
		City:    r.City,
		State:   r.State,
	}
}

func toCustomerResponse(c *customer.Customer) *CustomerResponse {
	addr := c.Address()
	return &CustomerResponse{
		ID:        c.ID(),
		Name:      c.Name(),
		Email:     c.Email().Value(),
		Phone:     c.Phone(),
		Address:   addr.Street(),
		ZipCode:   addr.ZipCode(),
		City:      addr.City(),
		State:     addr.State(),
		Version:   c.Version(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}
