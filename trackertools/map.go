package trackertools

func Map[T any, Y any](input []T, transform func(T) Y) []Y {
	result := make([]Y, 0, len(input))
	for _, item := range input {
		result = append(result, transform(item))
	}

	return result
}
