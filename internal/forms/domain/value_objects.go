package domain

type ID string
type Title string
type Label string

func (vo ID) String() string {
	return string(vo)
}

func (vo ID) IsZero() bool {
	return vo == ""
}
