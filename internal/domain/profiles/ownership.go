package profiles

import "context"

// OwnerOf expone el customer dueño de un perfil.
// Se usa para evitar ciclos de imports entre módulos (profiles <-> monitoring).
func (s *Service) OwnerOf(ctx context.Context, profileID string) (string, error) {
	p, err := s.GetByID(ctx, profileID)
	if err != nil {
		return "", err
	}
	return p.OwnerUserID, nil
}
