package access

// Service answers who the moderating operator is. A single identity holds
// approve/reject and admin-stats rights.
type Service struct {
	operatorID int64
}

func New(operatorID int64) *Service {
	return &Service{operatorID: operatorID}
}

func (s *Service) IsOperator(userID int64) bool {
	return userID == s.operatorID
}

func (s *Service) OperatorID() int64 {
	return s.operatorID
}
