package service

import "github.com/shenikar/crisis_mesh/internal/models"

// transitions - допустимые переходы вперед. Из resolved переходов нет
var transitions = map[models.Status][]models.Status{
	models.StatusOpen:       {models.StatusPending, models.StatusDispatched, models.StatusAccepted},
	models.StatusPending:    {models.StatusDispatched, models.StatusAccepted},
	models.StatusDispatched: {models.StatusAccepted},
	models.StatusAccepted:   {models.StatusOnScene, models.StatusResolved},
	models.StatusOnScene:    {models.StatusResolved},
}

// CanTransition сообщает, разрешен ли переход from -> to
func CanTransition(from, to models.Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses возвращает статусы, достижимые из from одним переходом
func NextStatuses(from models.Status) []models.Status {
	return append([]models.Status(nil), transitions[from]...)
}
