package models

// Status — закрытый перечень статусов записи в очереди. Все проверки
// переходов идут через единую таблицу transitions, а не через разбросанные
// сравнения строк.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusCalled    Status = "called"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
	StatusLeft      Status = "left"
)

// Типы ответа посетителя.
const (
	ResponseAccepted  = "accepted"
	ResponseCancelled = "cancelled"
	ResponseExpired   = "expired"
)

// Статусы отправки уведомления.
const (
	NotificationPending = "pending"
	NotificationSentOK  = "sent"
	NotificationFailed  = "failed"
)

// transitions — единственная таблица допустимых переходов.
// waiting → called | cancelled | left
// called  → confirmed | cancelled | expired
// confirmed → completed
// completed, cancelled, expired, left — терминальные.
var transitions = map[Status][]Status{
	StatusWaiting:   {StatusCalled, StatusCancelled, StatusLeft},
	StatusCalled:    {StatusConfirmed, StatusCancelled, StatusExpired},
	StatusConfirmed: {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusExpired:   {},
	StatusLeft:      {},
}

// ActiveStatuses — статусы, занимающие место в живой очереди. Подтверждённые
// (confirmed) записи место уже не занимают: это осознанный выбор, в исходной
// системе на этот счёт были расхождения.
var ActiveStatuses = []Status{StatusWaiting, StatusCalled}

// CanTransitionTo сообщает, допустим ли переход s → next по таблице.
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// IsTerminal сообщает, финальный ли это статус.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsActive сообщает, занимает ли запись с этим статусом место в очереди.
func (s Status) IsActive() bool {
	return s == StatusWaiting || s == StatusCalled
}

// IsValid сообщает, известен ли статус таблице переходов.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// AllStatuses возвращает все известные статусы.
func AllStatuses() []Status {
	return []Status{
		StatusWaiting, StatusCalled, StatusConfirmed,
		StatusCompleted, StatusCancelled, StatusExpired, StatusLeft,
	}
}

// SourcesOf возвращает статусы, из которых разрешён переход в target.
func SourcesOf(target Status) []Status {
	var sources []Status
	for _, s := range AllStatuses() {
		if s.CanTransitionTo(target) {
			sources = append(sources, s)
		}
	}
	return sources
}
