package orderControllers

import "github.com/Pranay9392/ecommerce-mernstack-backend/models"

// deliveryTransitions is every status change a delivery admin may make.
// Delivered may still become Returned; Returned and Canceled are final.
var deliveryTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusDelivered, models.OrderStatusCanceled},
	models.OrderStatusProcessing: {models.OrderStatusDelivered, models.OrderStatusCanceled},
	models.OrderStatusDelivered:  {models.OrderStatusReturned},
}

func canDeliveryTransition(from, to models.OrderStatus) bool {
	for _, allowed := range deliveryTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// canOwnerCancel is the only change a customer can make.
func canOwnerCancel(from models.OrderStatus) bool {
	return from == models.OrderStatusPending || from == models.OrderStatusProcessing
}
