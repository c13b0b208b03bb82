package notify

import (
	"context"

	appdispatch "github.com/tu-usuario/fieldservice-pro/internal/application/dispatch"
	"github.com/tu-usuario/fieldservice-pro/pkg/logger"
)

var _ appdispatch.Notifier = (*LogNotifier)(nil)

// LogNotifier implementación de Notifier que registra la notificación en el
// log estructurado. La app que embebe el núcleo puede sustituirla por correo,
// push, etc.; la mecánica de entrega está fuera de este núcleo.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// NotifyRejection informa al creador de la línea el motivo del rechazo.
func (n *LogNotifier) NotifyRejection(ctx context.Context, recipientID, lineID, reason string) error {
	n.log.Info().
		Str("recipient", recipientID).
		Str("line_id", lineID).
		Str("reason", reason).
		Msg("notificación de rechazo")
	return nil
}
