package reservation

import (
	"fmt"
	"strconv"

	"venuebooking/internal/domain"
)

func requesterLink(id int64) string { return "/solicitudes/" + strconv.FormatInt(id, 10) }
func adminLink(id int64) string     { return "/admin/solicitudes/" + strconv.FormatInt(id, 10) }

func slotText(r *domain.Reservation) string {
	return fmt.Sprintf("el %s de %s a %s", r.Date, r.Start, r.End)
}

// createdNotifications builds the in-app messages stored with a new request:
// one for the requester and one per active admin.
func createdNotifications(r *domain.Reservation, venueName string, admins []domain.User) []domain.Notification {
	out := make([]domain.Notification, 0, len(admins)+1)
	out = append(out, domain.Notification{
		UserID:   r.RequesterID,
		Title:    "Solicitud creada",
		Message:  fmt.Sprintf("Tu solicitud %s para %s %s fue registrada.", r.Code, venueName, slotText(r)),
		Category: domain.CategorySuccess,
		Link:     requesterLink(r.ID),
	})
	for _, a := range admins {
		out = append(out, domain.Notification{
			UserID:   a.ID,
			Title:    "Nueva solicitud de reserva",
			Message:  fmt.Sprintf("Se registró la solicitud %s para %s %s.", r.Code, venueName, slotText(r)),
			Category: domain.CategoryInfo,
			Link:     adminLink(r.ID),
		})
	}
	return out
}

// statusNotification is the requester message for a review, keyed on the
// kind of the new status.
func statusNotification(r *domain.Reservation, kind domain.StatusKind, notes string) domain.Notification {
	n := domain.Notification{
		UserID: r.RequesterID,
		Link:   requesterLink(r.ID),
	}

	switch kind {
	case domain.StatusApproved:
		n.Title = "Solicitud aprobada"
		n.Message = fmt.Sprintf("Tu solicitud %s fue aprobada. Reserva confirmada %s.", r.Code, slotText(r))
		n.Category = domain.CategorySuccess
	case domain.StatusRejected:
		n.Title = "Solicitud rechazada"
		n.Message = fmt.Sprintf("Tu solicitud %s fue rechazada.", r.Code)
		n.Category = domain.CategoryError
	case domain.StatusInReview:
		n.Title = "Solicitud en proceso"
		n.Message = fmt.Sprintf("Tu solicitud %s está siendo revisada.", r.Code)
		n.Category = domain.CategoryInfo
	default:
		n.Title = "Solicitud actualizada"
		n.Message = fmt.Sprintf("El estado de tu solicitud %s cambió a %s.", r.Code, r.Status)
		n.Category = domain.CategoryInfo
	}

	if notes != "" {
		n.Message += " Notas: " + notes
	}
	return n
}
