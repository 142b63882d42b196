package dto

type CreateTeamDTO struct {
	Name      string   `json:"name" validate:"required,min=2,max=100"`
	MemberIDs []uint64 `json:"member_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

type UpdateTeamDTO struct {
	Name      *string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	MemberIDs *[]uint64 `json:"member_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

type TeamDTO struct {
	ID      uint64         `json:"id"`
	Name    string         `json:"name"`
	Members []ShortUserDTO `json:"members"`
}
